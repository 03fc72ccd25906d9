package source

import (
	"errors"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const locationsDoc = `{
  "build_target": "StandaloneLinux64",
  "default_catalog": {"name": "catalog", "file_name": "catalog.json"},
  "locations": [
    {"type": "asset", "internal_path": "assets/ui/menu", "provider": "bundled-asset-provider", "keys": ["ui/menu"], "dependencies": ["bundles/ui"]},
    {"type": "bundle", "internal_path": "data/ui.bundle", "provider": "bundle-provider", "keys": ["bundles/ui"], "bundle_name": "ui.bundle"}
  ]
}`

func TestDecodeDocument(t *testing.T) {
	dec, err := NewDecoder()
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	defer dec.Close()

	doc, err := dec.DecodeDocument([]byte(locationsDoc), false)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}

	if doc.BuildTarget != "StandaloneLinux64" {
		t.Errorf("BuildTarget = %q", doc.BuildTarget)
	}
	if doc.DefaultCatalog.Name != "catalog" {
		t.Errorf("DefaultCatalog.Name = %q", doc.DefaultCatalog.Name)
	}
	if len(doc.Locations) != 2 {
		t.Fatalf("decoded %d locations, want 2", len(doc.Locations))
	}
	if doc.Locations[1].BundleName != "ui.bundle" {
		t.Errorf("bundle name = %q", doc.Locations[1].BundleName)
	}
	if doc.Locations[0].Dependencies[0] != "bundles/ui" {
		t.Errorf("dependency = %q", doc.Locations[0].Dependencies[0])
	}
}

func TestDecodeDocumentCompressed(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := enc.EncodeAll([]byte(locationsDoc), nil)
	enc.Close()

	dec, err := NewDecoder()
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	doc, err := dec.DecodeDocument(compressed, true)
	if err != nil {
		t.Fatalf("DecodeDocument(compressed) failed: %v", err)
	}
	if len(doc.Locations) != 2 {
		t.Errorf("decoded %d locations, want 2", len(doc.Locations))
	}
}

func TestDecodeDocumentRejectsInvalid(t *testing.T) {
	dec, err := NewDecoder()
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "not json at all"},
		{"location without keys", `{"locations": [{"type": "asset"}]}`},
		{"bundle without name", `{"locations": [{"type": "bundle", "keys": ["k"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dec.DecodeDocument([]byte(tt.doc), false); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestDecodeLayout(t *testing.T) {
	dec, err := NewDecoder()
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	lookup, err := dec.DecodeLayout([]byte(`{
	  "groups": [{"name": "ui-group", "build_path_var": "Local.BuildPath"}],
	  "bundles": {"ui.bundle": "ui-group"}
	}`), false)
	if err != nil {
		t.Fatalf("DecodeLayout failed: %v", err)
	}

	group, ok := lookup.GroupFor("ui.bundle")
	if !ok {
		t.Fatal("ui.bundle should resolve to its group")
	}
	if group.BuildPathVar != "Local.BuildPath" {
		t.Errorf("BuildPathVar = %q", group.BuildPathVar)
	}
	if _, ok := lookup.GroupFor("unknown.bundle"); ok {
		t.Error("unknown bundle should not resolve")
	}
}

func TestIsCompressedName(t *testing.T) {
	if !IsCompressedName("locations.json.zst") {
		t.Error("zst suffix should be detected")
	}
	if IsCompressedName("locations.json") {
		t.Error("plain json is not compressed")
	}
}
