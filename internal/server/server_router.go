package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func buildRouter(s *siteServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(s.rules.HTTPSRedirect)
	r.Use(middleware.GetHead)
	r.NotFound(s.rules.NotFound)

	// Health/info
	r.Get("/healthz", healthzHandler)
	r.Get("/api/v1/server-info", s.serverInfoHandler)

	// Search API
	r.Get("/api/v1/search", s.searchHandler)

	// UI/static
	r.Get("/assets/site.js", s.uiHandler)
	r.Get("/404.html", s.uiHandler)
	r.Get("/", s.homeHandler)
	r.Get("/*", s.staticHandler)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}
