// Package config provides configuration loading for the catalog splitter.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/packlane/catalog-splitter/internal/logging"
)

// Config is the complete splitter configuration.
type Config struct {
	Build    BuildConfig       `yaml:"build"`
	Source   SourceConfig      `yaml:"source"`
	Catalogs []*CatalogSpec    `yaml:"catalogs"`
	Profile  map[string]string `yaml:"profile"`
	Sink     SinkConfig        `yaml:"sink"`
	Journal  JournalConfig     `yaml:"journal"`
	Metrics  MetricsConfig     `yaml:"metrics"`
	Logging  logging.Config    `yaml:"logging"`
}

// BuildConfig describes the default catalog produced by the base builder.
type BuildConfig struct {
	Target          string `yaml:"target"`            // e.g. "StandaloneLinux64"
	DefaultCatalog  string `yaml:"default_catalog"`   // catalog name, e.g. "catalog"
	DefaultFileName string `yaml:"default_file_name"` // output filename for the default catalog
	// BuildPathVar and LoadPathVar are the profile variables the default
	// catalog builds into and loads from.
	BuildPathVar string `yaml:"build_path_var"`
	LoadPathVar  string `yaml:"load_path_var"`
	// ProjectRoot and AssetsRoot are never deleted by clean, no matter what
	// a catalog's build path resolves to.
	ProjectRoot string `yaml:"project_root"`
	AssetsRoot  string `yaml:"assets_root"`
}

// SourceConfig locates the upstream builder's outputs.
type SourceConfig struct {
	// Locations is a path or bucket URL (file, gs, s3) to the location list.
	Locations string `yaml:"locations"`
	// Layout is a path or bucket URL to the group layout manifest.
	Layout string `yaml:"layout"`
	// Compressed marks zstd-compressed inputs; inferred from a .zst suffix
	// when unset.
	Compressed bool `yaml:"compressed"`
}

// CatalogSpec is a user-authored named catalog definition.
type CatalogSpec struct {
	Name      string  `yaml:"name"`
	BuildPath string  `yaml:"build_path"` // path expression, e.g. "{Remote.BuildPath}/ui"
	LoadPath  string  `yaml:"load_path"`  // path expression, e.g. "{Remote.LoadPath}/ui"
	Include   RuleSet `yaml:"include"`
}

// RuleSet defines membership rules for a catalog. A location matches the set
// when any rule in any list matches; glob patterns use doublestar syntax.
type RuleSet struct {
	Keys      []string `yaml:"keys"`      // globs over lookup keys
	Paths     []string `yaml:"paths"`     // globs over internal artifact paths
	Bundles   []string `yaml:"bundles"`   // globs over bundle names
	Types     []string `yaml:"types"`     // exact resource-type tags
	Providers []string `yaml:"providers"` // exact provider ids
}

// Empty reports whether the rule set can never match anything.
func (r RuleSet) Empty() bool {
	return len(r.Keys) == 0 && len(r.Paths) == 0 && len(r.Bundles) == 0 &&
		len(r.Types) == 0 && len(r.Providers) == 0
}

// SinkConfig configures catalog serialization.
type SinkConfig struct {
	Compress bool `yaml:"compress"` // write .json.zst instead of .json
	// Mirror is an optional bucket URL (file, gs, s3) the final catalogs
	// are additionally published to.
	Mirror string `yaml:"mirror"`
}

// JournalConfig configures the relocation journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// MetricsConfig configures Prometheus exposition.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"` // e.g. ":9477"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			Target:          "Standalone",
			DefaultCatalog:  "catalog",
			DefaultFileName: "catalog.json",
			BuildPathVar:    "Local.BuildPath",
			LoadPathVar:     "Local.LoadPath",
			ProjectRoot:     ".",
			AssetsRoot:      "assets",
		},
		Journal: JournalConfig{
			Enabled: false,
			Dir:     ".catalog-splitter",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9477",
		},
		Logging: logging.Config{
			Format: "text",
			Level:  "info",
		},
	}
}

// LoadFromFile reads a YAML config file on top of the defaults and applies
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies environment variable overrides for deployment knobs that
// should not require editing the project config.
func (c *Config) applyEnv() {
	c.Source.Locations = getenvDefault("SPLITTER_LOCATIONS", c.Source.Locations)
	c.Source.Layout = getenvDefault("SPLITTER_LAYOUT", c.Source.Layout)
	c.Sink.Mirror = getenvDefault("SPLITTER_MIRROR", c.Sink.Mirror)
	c.Logging.Level = getenvDefault("SPLITTER_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getenvDefault("SPLITTER_LOG_FORMAT", c.Logging.Format)
	if v := os.Getenv("SPLITTER_METRICS_LISTEN"); v != "" {
		c.Metrics.Enabled = true
		c.Metrics.Listen = v
	}
}

// Validate checks cross-field invariants. Nil catalog entries are legal and
// skipped here; the partitioner skips them too.
func (c *Config) Validate() error {
	if c.Build.DefaultCatalog == "" {
		return fmt.Errorf("build.default_catalog is required")
	}
	if c.Build.BuildPathVar == "" {
		return fmt.Errorf("build.build_path_var is required")
	}

	seen := make(map[string]bool)
	for i, spec := range c.Catalogs {
		if spec == nil {
			continue
		}
		if strings.TrimSpace(spec.Name) == "" {
			return fmt.Errorf("catalogs[%d]: name is required", i)
		}
		if seen[spec.Name] {
			return fmt.Errorf("catalogs[%d]: duplicate catalog name %q", i, spec.Name)
		}
		seen[spec.Name] = true
		if spec.Name == c.Build.DefaultCatalog {
			return fmt.Errorf("catalogs[%d]: name %q collides with the default catalog", i, spec.Name)
		}
		if strings.TrimSpace(spec.BuildPath) == "" {
			return fmt.Errorf("catalog %q: build_path is required", spec.Name)
		}
		if strings.TrimSpace(spec.LoadPath) == "" {
			return fmt.Errorf("catalog %q: load_path is required", spec.Name)
		}
	}
	return nil
}

func getenvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
