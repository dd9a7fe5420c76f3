package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is set at build time with:
// -ldflags "-X github.com/weldfolio/weldsite/internal/version.Version=vX.Y.Z"
var Version = "dev"

func Current() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		return "dev"
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return strings.TrimPrefix(v, "v")
	}
	return semver.Canonical(v)
}
