package server

import (
	"net/http"
	"unicode/utf8"

	"github.com/weldfolio/weldsite/internal/search"
	"github.com/weldfolio/weldsite/internal/server/httpx"
)

const maxSearchQueryRunes = 256

// searchHandler answers with the same result set the browser widget renders
// for the query.
func (s *siteServer) searchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if utf8.RuneCountInString(q) > maxSearchQueryRunes {
		httpx.WriteError(w, http.StatusBadRequest, "query too long")
		return
	}
	results := search.Filter(s.catalog, q)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   q,
		Count:   len(results),
		Results: results,
	})
}
