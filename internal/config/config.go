package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath        = "weldsite.yaml"
	DefaultAddr        = ":8080"
	DefaultSiteRoot    = "site"
	DefaultCatalogPath = "/search.json"
)

type File struct {
	Version int    `yaml:"version" json:"version"`
	Site    Site   `yaml:"site" json:"site"`
	Server  Server `yaml:"server" json:"server"`
}

type Site struct {
	Name        string `yaml:"name" json:"name"`
	Root        string `yaml:"root" json:"root"`
	CatalogPath string `yaml:"catalog_path" json:"catalog_path"`
}

type Server struct {
	Addr        string `yaml:"addr" json:"addr"`
	ForceHTTPS  bool   `yaml:"force_https" json:"force_https"`
	NotFoundURL string `yaml:"not_found_url,omitempty" json:"not_found_url,omitempty"`
	MDNS        MDNS   `yaml:"mdns" json:"mdns"`
}

type MDNS struct {
	Enable   bool   `yaml:"enable" json:"enable"`
	Instance string `yaml:"instance,omitempty" json:"instance,omitempty"`
}

// envOverrides are applied on top of the file. Nil fields leave the file value alone.
type envOverrides struct {
	Addr         *string `env:"WELDSITE_ADDR"`
	SiteRoot     *string `env:"WELDSITE_SITE_ROOT"`
	ForceHTTPS   *bool   `env:"WELDSITE_FORCE_HTTPS"`
	NotFoundURL  *string `env:"WELDSITE_NOT_FOUND_URL"`
	MDNSEnable   *bool   `env:"WELDSITE_MDNS_ENABLE"`
	MDNSInstance *string `env:"WELDSITE_MDNS_INSTANCE"`
}

func Default() File {
	return File{
		Version: 1,
		Site: Site{
			Name:        "weldsite",
			Root:        DefaultSiteRoot,
			CatalogPath: DefaultCatalogPath,
		},
		Server: Server{
			Addr:       DefaultAddr,
			ForceHTTPS: true,
		},
	}
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file %q: %w", path, err)
	}

	return Parse(data, path)
}

// LoadOptional behaves like Load but falls back to Default when the file does not exist.
func LoadOptional(path string) (File, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return File{}, err
}

func Parse(data []byte, source string) (File, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// ApplyEnv overlays WELDSITE_* environment variables and re-validates.
func ApplyEnv(cfg File) (File, error) {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if o.Addr != nil {
		cfg.Server.Addr = *o.Addr
	}
	if o.SiteRoot != nil {
		cfg.Site.Root = *o.SiteRoot
	}
	if o.ForceHTTPS != nil {
		cfg.Server.ForceHTTPS = *o.ForceHTTPS
	}
	if o.NotFoundURL != nil {
		cfg.Server.NotFoundURL = *o.NotFoundURL
	}
	if o.MDNSEnable != nil {
		cfg.Server.MDNS.Enable = *o.MDNSEnable
	}
	if o.MDNSInstance != nil {
		cfg.Server.MDNS.Instance = *o.MDNSInstance
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config after env overrides: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (cfg File) Validate() []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported config version %d", cfg.Version))
	}
	if strings.TrimSpace(cfg.Site.Root) == "" {
		errs = append(errs, "site.root is required")
	}
	catalogPath := strings.TrimSpace(cfg.Site.CatalogPath)
	switch {
	case catalogPath == "":
		errs = append(errs, "site.catalog_path is required")
	case !strings.HasPrefix(catalogPath, "/"):
		errs = append(errs, fmt.Sprintf("site.catalog_path must start with / (got %q)", catalogPath))
	case !strings.HasSuffix(catalogPath, ".json"):
		errs = append(errs, fmt.Sprintf("site.catalog_path must name a .json file (got %q)", catalogPath))
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	}
	if raw := strings.TrimSpace(cfg.Server.NotFoundURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			errs = append(errs, fmt.Sprintf("server.not_found_url must be a fully-qualified URL (got %q)", raw))
		} else if !slices.Contains([]string{"http", "https"}, u.Scheme) {
			errs = append(errs, "server.not_found_url scheme must be one of http,https")
		}
	}
	if strings.ContainsAny(cfg.Server.MDNS.Instance, "\t\n\r") {
		errs = append(errs, "server.mdns.instance contains control characters")
	}

	return errs
}
