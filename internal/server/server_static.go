package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/weldfolio/weldsite/internal/sitetree"
)

func (s *siteServer) homeHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := fs.Stat(s.site, "index.html"); err == nil {
		s.serveSiteFile(w, r, ".")
		return
	}
	s.uiHandler(w, r)
}

func (s *siteServer) staticHandler(w http.ResponseWriter, r *http.Request) {
	name, ok := s.resolveSitePath(r.URL.Path)
	if !ok {
		s.rules.NotFound(w, r)
		return
	}
	s.serveSiteFile(w, r, name)
}

func (s *siteServer) serveSiteFile(w http.ResponseWriter, r *http.Request, name string) {
	if name == "." || path.Ext(name) == "" || strings.HasSuffix(name, ".html") {
		w.Header().Set("Content-Language", sitetree.LangForPath(r.URL.Path).String())
	}
	// http.FS treats "/" as the root and strips the leading slash elsewhere, which
	// keeps index.html lookups for the root directory valid.
	if name == "." {
		name = "/"
	} else {
		name = "/" + name
	}
	http.ServeFileFS(w, r, s.site, name)
}

// resolveSitePath maps a URL path to a file in the site root. Hidden entries
// and directories without an index.html do not resolve.
func (s *siteServer) resolveSitePath(urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	if name != "." {
		for _, seg := range strings.Split(name, "/") {
			if strings.HasPrefix(seg, ".") {
				return "", false
			}
		}
	}
	st, err := fs.Stat(s.site, name)
	if err != nil {
		return "", false
	}
	if st.IsDir() {
		if _, err := fs.Stat(s.site, path.Join(name, "index.html")); err != nil {
			return "", false
		}
	}
	return name, true
}
