package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/weldfolio/weldsite/internal/config"
)

const testCatalogJSON = `[
  {"title": "MIG Welding Basics", "description": "Introduction to gas metal arc welding", "url": "/guides/mig/introduction/"},
  {"title": "TIG Aluminium", "description": "AC balance and tungsten prep", "url": "/guides/tig/aluminium/"},
  {"title": "Stick Electrodes", "description": "Choosing E6010 vs E7018", "url": "/guides/stick/electrodes/"}
]`

// writeTestSite lays out a small site under a temp dir and returns its root.
func writeTestSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func defaultTestSiteFiles() map[string]string {
	return map[string]string{
		"index.html":                         "<!doctype html><title>Home</title><h1>Weld portfolio</h1>",
		"search.json":                        testCatalogJSON,
		"guides/mig/introduction/index.html": "<!doctype html><title>MIG</title><p>mig intro</p>",
		"fr/index.html":                      "<!doctype html><title>Accueil</title><p>bienvenue</p>",
		"css/site.css":                       "body { color: #222; }",
		"empty/readme.txt":                   "no index here",
		".git/config":                        "[core]",
	}
}

func newTestSiteServer(t *testing.T, files map[string]string, mutate func(*config.File)) *siteServer {
	t.Helper()
	cfg := config.Default()
	cfg.Site.Name = "Test Welds"
	cfg.Site.Root = writeTestSite(t, files)
	cfg.Server.ForceHTTPS = false
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := newSiteServer(cfg)
	if err != nil {
		t.Fatalf("new site server: %v", err)
	}
	return s
}

func newTestHTTPServer(t *testing.T, files map[string]string, mutate func(*config.File)) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(buildRouter(newTestSiteServer(t, files, mutate)))
	t.Cleanup(ts.Close)
	return ts
}

// noRedirectClient returns redirects to the caller instead of following them.
func noRedirectClient(ts *httptest.Server) *http.Client {
	client := ts.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

func mustRequest(t *testing.T, client *http.Client, method, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeJSONBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("decode response body: %v, tail=%q", err, string(raw))
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return string(data)
}
