package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/weldfolio/weldsite/internal/version"
)

func currentVersion() string {
	return version.Current()
}

func (s *siteServer) serverInfoHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	host = strings.TrimSpace(host)
	writeJSON(w, http.StatusOK, serverInfoResponse{
		Name:           s.cfg.Site.Name,
		APIVersion:     1,
		Version:        currentVersion(),
		Hostname:       host,
		CatalogEntries: len(s.catalog),
	})
}
