package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/weldfolio/weldsite/internal/config"
	"github.com/weldfolio/weldsite/internal/rules"
	"github.com/weldfolio/weldsite/internal/search"
)

// siteServer serves one site root. The catalog is read once at startup and
// never written afterwards.
type siteServer struct {
	cfg     config.File
	site    fs.FS
	rules   rules.Rules
	catalog []search.Entry
}

func Run(ctx context.Context, cfg config.File) error {
	s, err := newSiteServer(cfg)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           buildRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopMDNS := startMDNSAdvertiser(cfg)
	defer stopMDNS()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("weldsite server started", "addr", addr, "site_root", cfg.Site.Root, "catalog_entries", len(s.catalog), "force_https", cfg.Server.ForceHTTPS)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		slog.Info("weldsite server stopped")
		return nil
	case err := <-errCh:
		if err != nil {
			return err
		}
		slog.Info("weldsite server stopped")
		return nil
	}
}

func newSiteServer(cfg config.File) (*siteServer, error) {
	st, err := os.Stat(cfg.Site.Root)
	if err != nil {
		return nil, fmt.Errorf("site root %q: %w", cfg.Site.Root, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("site root %q is not a directory", cfg.Site.Root)
	}
	s := &siteServer{
		cfg:  cfg,
		site: os.DirFS(cfg.Site.Root),
	}
	s.rules = rules.Rules{
		ForceHTTPS:   cfg.Server.ForceHTTPS,
		NotFoundURL:  cfg.Server.NotFoundURL,
		NotFoundPage: http.HandlerFunc(s.notFoundPageHandler),
	}
	s.catalog = s.loadCatalog()
	return s, nil
}

// loadCatalog reads the catalog file from the site root. A missing or broken
// catalog is logged and leaves search empty.
func (s *siteServer) loadCatalog() []search.Entry {
	name := strings.TrimPrefix(s.cfg.Site.CatalogPath, "/")
	f, err := s.site.Open(name)
	if err != nil {
		slog.Warn("search catalog unavailable", "path", s.cfg.Site.CatalogPath, "error", err)
		return []search.Entry{}
	}
	defer f.Close()
	entries, err := search.ReadCatalog(f)
	if err != nil {
		slog.Error("search catalog load failed", "path", s.cfg.Site.CatalogPath, "error", err)
		return []search.Entry{}
	}
	return entries
}
