// Package search holds the page catalog, the filter over it and the widget that
// loads the catalog once and answers queries against it.
package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrCatalogLoadFailed reports a failed or non-2xx catalog fetch.
	ErrCatalogLoadFailed = errors.New("catalog load failed")
	// ErrCatalogParseFailed reports a catalog body that is not a JSON array of entries.
	ErrCatalogParseFailed = errors.New("catalog parse failed")
)

// Entry is one searchable page. Unknown JSON fields are ignored.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// ReadCatalog decodes a catalog document. A JSON null decodes to an empty catalog.
func ReadCatalog(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogParseFailed, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
