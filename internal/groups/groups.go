// Package groups resolves bundle artifacts back to the authoring group that
// produced them.
//
// The upstream builder emits a layout manifest alongside the location list;
// this package is the narrow interface the relocator uses to decide whether
// a bundle was built into the default build path at all.
package groups

import (
	"encoding/json"
	"fmt"
)

// Group describes one authoring group and the identity of its configured
// build-path setting. The identity is the profile variable name, not the
// resolved string: two groups share a path setting only when they reference
// the same variable.
type Group struct {
	Name         string `json:"name"`
	BuildPathVar string `json:"build_path_var"`
}

// Lookup maps a bundle artifact filename to its owning group.
type Lookup interface {
	GroupFor(bundleFile string) (Group, bool)
}

// Layout is the build layout manifest emitted by the upstream builder.
type Layout struct {
	Groups  []Group           `json:"groups"`
	Bundles map[string]string `json:"bundles"` // bundle filename -> group name
}

// LayoutLookup implements Lookup over a parsed layout manifest.
type LayoutLookup struct {
	byName  map[string]Group
	bundles map[string]string
}

// ParseLayout decodes a layout manifest and builds the lookup index.
func ParseLayout(data []byte) (*LayoutLookup, error) {
	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse layout manifest: %w", err)
	}
	return NewLayoutLookup(layout), nil
}

// NewLayoutLookup indexes a layout manifest.
func NewLayoutLookup(layout Layout) *LayoutLookup {
	l := &LayoutLookup{
		byName:  make(map[string]Group, len(layout.Groups)),
		bundles: layout.Bundles,
	}
	for _, g := range layout.Groups {
		l.byName[g.Name] = g
	}
	return l
}

// GroupFor returns the group that produced the given bundle file.
func (l *LayoutLookup) GroupFor(bundleFile string) (Group, bool) {
	name, ok := l.bundles[bundleFile]
	if !ok {
		return Group{}, false
	}
	g, ok := l.byName[name]
	return g, ok
}
