// Package sitetree scaffolds the bilingual directory layout of the site:
// English at the root, French under fr/.
package sitetree

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

const keepFile = ".gitkeep"

type Tree struct {
	Lang  language.Tag
	Paths []string
}

var english = []string{
	"guides/mig/introduction/",
	"guides/mig/settings/",
	"guides/mig/common-defects/",
	"guides/tig/stainless-steel/",
	"guides/tig/aluminium/",
	"guides/tig/titanium/",
	"guides/fcaw/basics/",
	"guides/fcaw/multi-pass/",
	"guides/fcaw/parameters/",
	"guides/smaw/introduction/",
	"guides/smaw/advanced-techniques/",
	"guides/metallurgy/heat-affected-zone/",
	"guides/metallurgy/stress-deformation/",
	"guides/metallurgy/heat-treatment/",
	"guides/qa-qc/visual-inspection/",
	"guides/qa-qc/ndt-tests/",
	"guides/qa-qc/standards/",
	"guides/automation/python-wps/",
	"guides/automation/heat-input-calculator/",
	"guides/automation/report-generation/",
	"articles/standards/nasa-welding/",
	"articles/standards/aws-d1-1/",
	"articles/standards/iso-9606/",
	"articles/industry/mining-australia/",
	"articles/industry/aerospace-welding/",
	"articles/industry/shipbuilding/",
	"articles/career/salaries-canada/",
	"articles/career/salaries-australia/",
	"articles/career/freelance-welder/",
	"articles/innovation/robotics/",
	"articles/innovation/metal-3d-printing/",
	"articles/innovation/new-consumables/",
	"tools/heat-input-simulator/",
	"tools/bead-profile/",
	"tools/plate-deformation/",
	"tools/wps-calculator/",
	"downloads/",
	"about/",
	"contact/",
	"search/",
}

var french = []string{
	"fr/guides/mig/introduction/",
	"fr/guides/mig/reglages/",
	"fr/guides/mig/defauts-courants/",
	"fr/guides/tig/acier-inox/",
	"fr/guides/tig/aluminium/",
	"fr/guides/tig/titane/",
	"fr/guides/fcaw/bases/",
	"fr/guides/fcaw/multi-passes/",
	"fr/guides/fcaw/parametres/",
	"fr/guides/smaw/introduction/",
	"fr/guides/smaw/techniques-avancees/",
	"fr/guides/metallurgie/zone-affectee-thermiquement/",
	"fr/guides/metallurgie/contraintes-deformation/",
	"fr/guides/metallurgie/traitements-thermiques/",
	"fr/guides/qa-qc/inspection-visuelle/",
	"fr/guides/qa-qc/essais-non-destructifs/",
	"fr/guides/qa-qc/normes/",
	"fr/guides/automation/python-wps/",
	"fr/guides/automation/calcul-apport-thermique/",
	"fr/guides/automation/generation-rapports/",
	"fr/articles/standards/nasa-soudage/",
	"fr/articles/standards/aws-d1-1/",
	"fr/articles/standards/iso-9606/",
	"fr/articles/industrie/minier-australie/",
	"fr/articles/industrie/soudage-aerospatial/",
	"fr/articles/industrie/naval/",
	"fr/articles/carriere/salaires-canada/",
	"fr/articles/carriere/salaires-australie/",
	"fr/articles/carriere/devenir-soudeur-independant/",
	"fr/articles/innovation/robotique/",
	"fr/articles/innovation/impression-3d-metal/",
	"fr/articles/innovation/nouveaux-consommables/",
	"fr/outils/simulateur-apport-thermique/",
	"fr/outils/profil-cordon/",
	"fr/outils/deformation-toles/",
	"fr/outils/calcul-wps/",
	"fr/downloads/",
	"fr/a-propos/",
	"fr/contact/",
	"fr/recherche/",
}

// Trees returns the site layout, one tree per language, English first.
func Trees() []Tree {
	return []Tree{
		{Lang: language.English, Paths: append([]string(nil), english...)},
		{Lang: language.French, Paths: append([]string(nil), french...)},
	}
}

// LangForPath reports which language tree a site path belongs to.
func LangForPath(p string) language.Tag {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "fr" || strings.HasPrefix(p, "fr/") {
		return language.French
	}
	return language.English
}

type Result struct {
	Lang    language.Tag
	Ensured int
}

// Ensure creates every tree below base. Existing directories and keep files are
// left untouched, so running it again is harmless.
func Ensure(base string, gitkeep bool) ([]Result, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create base %q: %w", base, err)
	}
	var results []Result
	for _, tree := range Trees() {
		n, err := Create(base, tree.Paths, gitkeep)
		if err != nil {
			return results, fmt.Errorf("create %s tree: %w", tree.Lang, err)
		}
		results = append(results, Result{Lang: tree.Lang, Ensured: n})
	}
	return results, nil
}

// Create ensures each relative path exists below base and returns how many were ensured.
func Create(base string, rels []string, gitkeep bool) (int, error) {
	created := 0
	for _, rel := range rels {
		clean, err := cleanRel(rel)
		if err != nil {
			return created, err
		}
		dir := filepath.Join(base, filepath.FromSlash(clean))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, fmt.Errorf("create %q: %w", dir, err)
		}
		created++
		if !gitkeep {
			continue
		}
		keep := filepath.Join(dir, keepFile)
		if _, err := os.Stat(keep); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return created, fmt.Errorf("stat %q: %w", keep, err)
		}
		if err := os.WriteFile(keep, nil, 0o644); err != nil {
			return created, fmt.Errorf("write %q: %w", keep, err)
		}
	}
	return created, nil
}

func cleanRel(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("invalid tree path %q", rel)
	}
	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("tree path %q escapes base", rel)
	}
	return clean, nil
}
