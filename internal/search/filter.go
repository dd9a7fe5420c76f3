package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter returns the entries whose title or description contains query,
// compared after root-locale lowercasing, the same rule the browser widget's
// toLowerCase applies. Catalog order is kept. A query that is empty after
// trimming yields an empty result, never the whole catalog.
func Filter(catalog []Entry, query string) []Entry {
	out := []Entry{}
	if strings.TrimSpace(query) == "" {
		return out
	}
	lower := cases.Lower(language.Und)
	needle := lower.String(query)
	for _, e := range catalog {
		if strings.Contains(lower.String(e.Title), needle) || strings.Contains(lower.String(e.Description), needle) {
			out = append(out, e)
		}
	}
	return out
}
