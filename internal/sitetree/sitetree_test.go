package sitetree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestTreesAreBalanced(t *testing.T) {
	trees := Trees()
	if len(trees) != 2 || trees[0].Lang != language.English || trees[1].Lang != language.French {
		t.Fatalf("unexpected trees: %+v", trees)
	}
	if len(trees[0].Paths) != len(trees[1].Paths) {
		t.Fatalf("expected one french page per english page, got %d vs %d", len(trees[0].Paths), len(trees[1].Paths))
	}
	for _, p := range trees[1].Paths {
		if !strings.HasPrefix(p, "fr/") {
			t.Fatalf("french path %q outside fr/", p)
		}
	}
	trees[0].Paths[0] = "mutated/"
	if Trees()[0].Paths[0] == "mutated/" {
		t.Fatalf("Trees returned shared backing slice")
	}
}

func TestEnsureCreatesTreeWithKeepFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "site")
	results, err := Ensure(base, true)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if len(results) != 2 || results[0].Ensured != 40 || results[1].Ensured != 40 {
		t.Fatalf("unexpected results: %+v", results)
	}
	for _, rel := range []string{"guides/tig/aluminium", "fr/outils/calcul-wps", "search", "fr/recherche"} {
		if _, err := os.Stat(filepath.Join(base, rel, ".gitkeep")); err != nil {
			t.Fatalf("expected keep file in %s: %v", rel, err)
		}
	}
}

func TestEnsureIsIdempotentAndKeepsContent(t *testing.T) {
	base := t.TempDir()
	if _, err := Ensure(base, true); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	keep := filepath.Join(base, "about", ".gitkeep")
	if err := os.WriteFile(keep, []byte("keep me"), 0o644); err != nil {
		t.Fatalf("write keep: %v", err)
	}
	if _, err := Ensure(base, true); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	data, err := os.ReadFile(keep)
	if err != nil || string(data) != "keep me" {
		t.Fatalf("expected existing keep file untouched, got %q err=%v", data, err)
	}
}

func TestEnsureWithoutKeepFiles(t *testing.T) {
	base := t.TempDir()
	if _, err := Ensure(base, false); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "contact", ".gitkeep")); !os.IsNotExist(err) {
		t.Fatalf("expected no keep file, stat err=%v", err)
	}
	if st, err := os.Stat(filepath.Join(base, "contact")); err != nil || !st.IsDir() {
		t.Fatalf("expected contact dir, err=%v", err)
	}
}

func TestCreateRejectsEscapingPaths(t *testing.T) {
	for _, rel := range []string{"../outside/", "/abs/", "", "a/../../b"} {
		if _, err := Create(t.TempDir(), []string{rel}, false); err == nil {
			t.Fatalf("expected %q to be rejected", rel)
		}
	}
}

func TestLangForPath(t *testing.T) {
	cases := map[string]language.Tag{
		"/fr/guides/mig/reglages/": language.French,
		"fr":                       language.French,
		"/guides/mig/settings/":    language.English,
		"/french-fries/":           language.English,
		"/":                        language.English,
	}
	for p, want := range cases {
		if got := LangForPath(p); got != want {
			t.Fatalf("LangForPath(%q)=%s want %s", p, got, want)
		}
	}
}
