// Package indexer builds the search catalog from the pages of a site tree.
package indexer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/weldfolio/weldsite/internal/search"
)

const PagePattern = "**/index.html"

// Build reads every index.html below root and returns one entry per titled page,
// ordered by path.
func Build(root string) ([]search.Entry, error) {
	return BuildFS(os.DirFS(root))
}

func BuildFS(fsys fs.FS) ([]search.Entry, error) {
	matches, err := doublestar.Glob(fsys, PagePattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", PagePattern, err)
	}
	sort.Strings(matches)

	policy := bluemonday.StrictPolicy()
	entries := []search.Entry{}
	for _, m := range matches {
		if hiddenPath(m) {
			continue
		}
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", m, err)
		}
		meta, err := readPageMeta(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", m, err)
		}
		title := collapseSpace(meta.title)
		if title == "" {
			slog.Debug("skipping untitled page", "path", m)
			continue
		}
		entries = append(entries, search.Entry{
			Title:       title,
			Description: pageDescription(policy, meta),
			URL:         pageURL(m),
		})
	}
	return entries, nil
}

// WriteCatalog encodes entries in the format search.ReadCatalog expects.
func WriteCatalog(w io.Writer, entries []search.Entry) error {
	if entries == nil {
		entries = []search.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// WriteFile writes the catalog atomically next to its final location.
func WriteFile(dst string, entries []search.Entry) error {
	var buf bytes.Buffer
	if err := WriteCatalog(&buf, entries); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("prepare catalog directory: %w", err)
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move catalog into place: %w", err)
	}
	return nil
}

type pageMeta struct {
	title       string
	description string
	// excerpt is the markup of the first body paragraph.
	excerpt string
}

func readPageMeta(data []byte) (pageMeta, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return pageMeta{}, err
	}
	var meta pageMeta
	var ogDescription string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if meta.title == "" && n.FirstChild != nil {
					meta.title = n.FirstChild.Data
				}
			case atom.Meta:
				name := strings.ToLower(attr(n, "name"))
				prop := strings.ToLower(attr(n, "property"))
				switch {
				case name == "description" && meta.description == "":
					meta.description = attr(n, "content")
				case prop == "og:description" && ogDescription == "":
					ogDescription = attr(n, "content")
				}
			case atom.P:
				if meta.excerpt == "" {
					var b bytes.Buffer
					for c := n.FirstChild; c != nil; c = c.NextSibling {
						if err := html.Render(&b, c); err != nil {
							return
						}
					}
					meta.excerpt = b.String()
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if strings.TrimSpace(meta.description) == "" {
		meta.description = ogDescription
	}
	return meta, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// pageDescription prefers the meta description. Pages without one fall back to
// the text of their first paragraph, which is markup and gets stripped first.
func pageDescription(policy *bluemonday.Policy, meta pageMeta) string {
	if d := collapseSpace(meta.description); d != "" {
		return d
	}
	if meta.excerpt == "" {
		return ""
	}
	return collapseSpace(html.UnescapeString(policy.Sanitize(meta.excerpt)))
}

// collapseSpace trims s and folds whitespace runs into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pageURL(match string) string {
	dir := path.Dir(match)
	if dir == "." {
		return "/"
	}
	return "/" + dir + "/"
}

func hiddenPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") || strings.HasPrefix(seg, "_") {
			return true
		}
	}
	return false
}
