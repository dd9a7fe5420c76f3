package server

import "github.com/weldfolio/weldsite/internal/search"

type serverInfoResponse struct {
	Name           string `json:"name"`
	APIVersion     int    `json:"api_version"`
	Version        string `json:"version"`
	Hostname       string `json:"hostname,omitempty"`
	CatalogEntries int    `json:"catalog_entries"`
}

type healthzResponse struct {
	Status string `json:"status"`
}

type searchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []search.Entry `json:"results"`
}
