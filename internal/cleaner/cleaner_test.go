package cleaner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/profile"
)

func spec(name, buildPath string) *config.CatalogSpec {
	return &config.CatalogSpec{Name: name, BuildPath: buildPath, LoadPath: "load"}
}

func TestCleanRemovesBuildDirectory(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "out", "ui")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "catalog_UI.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	resolver := profile.NewMapResolver(map[string]string{"UI.BuildPath": dir})
	c := New(resolver, []string{tmp}, nil)

	removed, err := c.Clean([]*config.CatalogSpec{spec("UI", "{UI.BuildPath}")})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d directories, want 1", removed)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("build directory should be removed, stat err = %v", err)
	}
}

func TestCleanSkipsProtectedRoots(t *testing.T) {
	tmp := t.TempDir()
	project := filepath.Join(tmp, "project")
	assets := filepath.Join(project, "assets")
	if err := os.MkdirAll(assets, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		buildPath string
	}{
		{"project root itself", project},
		{"assets root itself", assets},
		// Differently expressed path to the same directory.
		{"traversal to project root", filepath.Join(assets, "..")},
		{"dot inside project root", project + string(os.PathSeparator) + "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := profile.NewMapResolver(map[string]string{"X.BuildPath": tt.buildPath})
			c := New(resolver, []string{project, assets}, nil)

			removed, err := c.Clean([]*config.CatalogSpec{spec("X", "{X.BuildPath}")})
			if err != nil {
				t.Fatalf("Clean failed: %v", err)
			}
			if removed != 0 {
				t.Errorf("removed %d directories, want 0", removed)
			}
			if _, err := os.Stat(project); err != nil {
				t.Errorf("protected root deleted: %v", err)
			}
			if _, err := os.Stat(assets); err != nil {
				t.Errorf("protected assets root deleted: %v", err)
			}
		})
	}
}

func TestCleanProtectedRootMixedPathForms(t *testing.T) {
	// A relative protected root ("." is the shipped default) must guard a
	// build path that resolves to the same directory spelled absolutely,
	// and an absolute root must guard a relative build path.
	project := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(project); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	abs, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		root      string
		buildPath string
	}{
		{"relative root, absolute build path", ".", abs},
		{"absolute root, relative build path", abs, "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := profile.NewMapResolver(map[string]string{"X.BuildPath": tt.buildPath})
			c := New(resolver, []string{tt.root}, nil)

			removed, err := c.Clean([]*config.CatalogSpec{spec("X", "{X.BuildPath}")})
			if err != nil {
				t.Fatalf("Clean failed: %v", err)
			}
			if removed != 0 {
				t.Errorf("removed %d directories, want 0", removed)
			}
			if _, err := os.Stat(abs); err != nil {
				t.Fatalf("protected project root deleted: %v", err)
			}
		})
	}
}

func TestCleanMissingDirectoryIsNoop(t *testing.T) {
	tmp := t.TempDir()
	resolver := profile.NewMapResolver(map[string]string{"UI.BuildPath": filepath.Join(tmp, "never-built")})
	c := New(resolver, []string{tmp}, nil)

	if _, err := c.Clean([]*config.CatalogSpec{spec("UI", "{UI.BuildPath}")}); err != nil {
		t.Fatalf("Clean of a missing directory should be silent: %v", err)
	}
}

func TestCleanUnresolvedFallsBackToIdentifier(t *testing.T) {
	// With no profile value the cleaner falls back to the expression's
	// variable identifier. No such directory exists here, so this is a
	// no-op rather than an error.
	resolver := profile.NewMapResolver(nil)
	c := New(resolver, []string{"."}, nil)

	if _, err := c.Clean([]*config.CatalogSpec{spec("UI", "{Unset.BuildPath}")}); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
}

func TestCleanNilSpecSkipped(t *testing.T) {
	c := New(profile.NewMapResolver(nil), []string{"."}, nil)
	if _, err := c.Clean([]*config.CatalogSpec{nil}); err != nil {
		t.Fatalf("nil spec should be skipped: %v", err)
	}
}
