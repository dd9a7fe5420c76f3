// Package rules implements the site's two serving rules: plain HTTP is
// permanently redirected to HTTPS, and unknown paths are sent to a fixed error page.
package rules

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HealthPath is answered over plain HTTP so load balancer health checks are not redirected.
const HealthPath = "/healthz"

type Rules struct {
	ForceHTTPS  bool
	NotFoundURL string
	// NotFoundPage answers unknown paths when NotFoundURL is empty.
	NotFoundPage http.Handler
}

// IsSecure reports whether the request arrived over TLS, directly or through a
// proxy that set X-Forwarded-Proto.
func IsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	proto := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")[0])
	return strings.EqualFold(proto, "https")
}

// HTTPSTarget is the https:// URL for the same host, path and query.
func HTTPSTarget(r *http.Request) string {
	return "https://" + r.Host + r.URL.RequestURI()
}

func (rl Rules) HTTPSRedirect(next http.Handler) http.Handler {
	if !rl.ForceHTTPS {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsSecure(r) || r.URL.Path == HealthPath {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, HTTPSTarget(r), http.StatusMovedPermanently)
	})
}

// NotFound redirects to the configured error page. Without one it falls back
// to NotFoundPage, then to a bare 404.
func (rl Rules) NotFound(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(rl.NotFoundURL)
	if target == "" {
		if rl.NotFoundPage != nil {
			rl.NotFoundPage.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// WriteHTAccess renders the same rules for Apache-style static hosts.
func (rl Rules) WriteHTAccess(w io.Writer) error {
	var b strings.Builder
	b.WriteString("# Generated by weldsite htaccess\n")
	if rl.ForceHTTPS {
		b.WriteString("RewriteEngine On\n")
		b.WriteString("RewriteCond %{HTTPS} off\n")
		b.WriteString("RewriteCond %{HTTP:X-Forwarded-Proto} !https\n")
		b.WriteString("RewriteRule ^(.*)$ https://%{HTTP_HOST}%{REQUEST_URI} [L,R=301]\n")
	}
	if target := strings.TrimSpace(rl.NotFoundURL); target != "" {
		fmt.Fprintf(&b, "ErrorDocument 404 %s\n", target)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
