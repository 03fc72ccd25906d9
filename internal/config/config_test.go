package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog-splitter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
build:
  target: StandaloneLinux64
  default_catalog: catalog
  default_file_name: catalog.json
source:
  locations: out/locations.json
  layout: out/layout.json
profile:
  Local.BuildPath: library/content
  Remote.BuildPath: serverdata
  Remote.LoadPath: http://cdn.example.com/content
catalogs:
  - name: UI
    build_path: "{Remote.BuildPath}/ui"
    load_path: "{Remote.LoadPath}/ui"
    include:
      keys: ["ui/**"]
      bundles: ["ui_*"]
  - name: Audio
    build_path: "{Remote.BuildPath}/audio"
    load_path: "{Remote.LoadPath}/audio"
    include:
      types: ["asset"]
sink:
  compress: true
logging:
  level: debug
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "StandaloneLinux64", cfg.Build.Target)
	assert.Equal(t, "Local.BuildPath", cfg.Build.BuildPathVar) // default survives partial config
	assert.Equal(t, "out/locations.json", cfg.Source.Locations)
	assert.Equal(t, "library/content", cfg.Profile["Local.BuildPath"])
	require.Len(t, cfg.Catalogs, 2)
	assert.Equal(t, "UI", cfg.Catalogs[0].Name)
	assert.Equal(t, []string{"ui/**"}, cfg.Catalogs[0].Include.Keys)
	assert.True(t, cfg.Sink.Compress)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing catalog name",
			yaml: `
catalogs:
  - build_path: x
    load_path: y
`,
			wantErr: "name is required",
		},
		{
			name: "duplicate catalog name",
			yaml: `
catalogs:
  - name: UI
    build_path: x
    load_path: y
  - name: UI
    build_path: x2
    load_path: y2
`,
			wantErr: "duplicate catalog name",
		},
		{
			name: "missing build path",
			yaml: `
catalogs:
  - name: UI
    load_path: y
`,
			wantErr: "build_path is required",
		},
		{
			name: "collides with default catalog",
			yaml: `
catalogs:
  - name: catalog
    build_path: x
    load_path: y
`,
			wantErr: "collides with the default catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNilCatalogEntryTolerated(t *testing.T) {
	// A YAML list may carry explicit nulls; they are skipped, not errors.
	path := writeConfig(t, `
catalogs:
  - ~
  - name: UI
    build_path: x
    load_path: y
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Catalogs, 2)
	assert.Nil(t, cfg.Catalogs[0])
	assert.Equal(t, "UI", cfg.Catalogs[1].Name)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPLITTER_LOCATIONS", "gs://builds/locations.json")
	t.Setenv("SPLITTER_METRICS_LISTEN", ":9999")

	cfg, err := LoadFromFile(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, "gs://builds/locations.json", cfg.Source.Locations)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9999", cfg.Metrics.Listen)
}
