package server

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

var (
	homeTemplate     = template.Must(template.New("home").Parse(homeHTML))
	notFoundTemplate = template.Must(template.New("404").Parse(notFoundHTML))
)

type pageView struct {
	SiteName   string
	CatalogURL string
}

func (s *siteServer) uiHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/assets/site.js":
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write([]byte(uiSiteJS))
	case "/404.html":
		if _, err := fs.Stat(s.site, "404.html"); err == nil {
			http.ServeFileFS(w, r, s.site, "404.html")
			return
		}
		s.renderPage(w, http.StatusOK, notFoundTemplate)
	case "/":
		s.renderPage(w, http.StatusOK, homeTemplate)
	default:
		s.rules.NotFound(w, r)
	}
}

// notFoundPageHandler is the fallback for unknown paths when no error page URL
// is configured. The site's own 404.html wins over the built-in page.
func (s *siteServer) notFoundPageHandler(w http.ResponseWriter, r *http.Request) {
	if data, err := fs.ReadFile(s.site, "404.html"); err == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write(data)
		return
	}
	s.renderPage(w, http.StatusNotFound, notFoundTemplate)
}

func (s *siteServer) renderPage(w http.ResponseWriter, status int, tmpl *template.Template) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, pageView{SiteName: s.cfg.Site.Name, CatalogURL: s.cfg.Site.CatalogPath}); err != nil {
		slog.Error("render page", "page", tmpl.Name(), "error", err)
	}
}
