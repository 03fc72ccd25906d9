package catalog

import (
	"errors"
	"testing"

	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/location"
)

func TestSpecMatches(t *testing.T) {
	spec, err := NewSpec(&config.CatalogSpec{
		Name:      "UI",
		BuildPath: "{Remote.BuildPath}/ui",
		LoadPath:  "{Remote.LoadPath}/ui",
		Include: config.RuleSet{
			Keys:      []string{"ui/**"},
			Paths:     []string{"assets/menus/*.prefab"},
			Bundles:   []string{"ui_*"},
			Types:     []string{"scene"},
			Providers: []string{"legacy-provider"},
		},
	})
	if err != nil {
		t.Fatalf("NewSpec failed: %v", err)
	}

	tests := []struct {
		name string
		loc  *location.Location
		want bool
	}{
		{"key glob match", assetLoc("ui/menu/main"), true},
		{"key glob miss", assetLoc("audio/theme"), false},
		{"secondary key match", &location.Location{
			Type: location.TypeAsset, Provider: location.ProviderBundledAsset,
			Keys: []string{"guid-1234", "ui/alias"},
		}, true},
		{"path glob match", &location.Location{
			Type: location.TypeAsset, Provider: location.ProviderBundledAsset,
			Keys: []string{"menus/main"}, InternalPath: "assets/menus/main.prefab",
		}, true},
		{"bundle glob match", bundleLoc("bundles/x", "ui_common.bundle"), true},
		{"bundle glob miss", bundleLoc("bundles/y", "audio_common.bundle"), false},
		{"type match", &location.Location{
			Type: location.TypeScene, Keys: []string{"scenes/boot"},
		}, true},
		{"provider match", &location.Location{
			Type: location.TypeAsset, Provider: "legacy-provider", Keys: []string{"old/thing"},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spec.Matches(tt.loc); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.loc.Keys, got, tt.want)
			}
		})
	}
}

func TestSpecRejectsBadPattern(t *testing.T) {
	_, err := NewSpec(&config.CatalogSpec{
		Name:      "Broken",
		BuildPath: "x",
		LoadPath:  "y",
		Include:   config.RuleSet{Keys: []string{"ui/[bad"}},
	})
	if !errors.Is(err, ErrBadPattern) {
		t.Errorf("expected ErrBadPattern, got %v", err)
	}
}
