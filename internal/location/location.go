// Package location defines the build-time content location model shared by
// the partitioner, dependency closure and relocator.
package location

import (
	"errors"
	"fmt"
	"path"
)

// ResourceType tags what kind of loadable resource a location points at.
type ResourceType string

const (
	TypeAsset  ResourceType = "asset"
	TypeBundle ResourceType = "bundle"
	TypeScene  ResourceType = "scene"
)

// Provider identifiers for the runtime loaders referenced by locations.
const (
	ProviderAssetBundle  = "bundle-provider"
	ProviderBundledAsset = "bundled-asset-provider"
)

var ErrNoKeys = errors.New("location has no lookup keys")

// Location is an immutable build-time reference to one loadable resource.
// It is produced once by the upstream builder; catalog-specific load-path
// rewriting creates a new Location via WithInternalPath rather than mutating.
type Location struct {
	Type         ResourceType `json:"type"`
	InternalPath string       `json:"internal_path"`
	Provider     string       `json:"provider"`
	Keys         []string     `json:"keys"`
	Dependencies []string     `json:"dependencies,omitempty"`
	BundleName   string       `json:"bundle_name,omitempty"`
}

// PrimaryKey returns the canonical dependency-reference id, which is always
// the first lookup key.
func (l *Location) PrimaryKey() string {
	if len(l.Keys) == 0 {
		return ""
	}
	return l.Keys[0]
}

// IsBundle reports whether this location requires physical-file relocation.
func (l *Location) IsBundle() bool {
	return l.Type == TypeBundle
}

// BundleFile returns the artifact filename for a bundle-typed location.
// For non-bundle locations it falls back to the internal path's basename.
func (l *Location) BundleFile() string {
	if l.BundleName != "" {
		return l.BundleName
	}
	return path.Base(l.InternalPath)
}

// WithInternalPath returns a copy of the location with a rewritten internal
// path. Keys, dependencies and provider data are shared with the original,
// which is safe because locations are never mutated after creation.
func (l *Location) WithInternalPath(p string) *Location {
	copied := *l
	copied.InternalPath = p
	return &copied
}

// Validate checks the structural invariants the upstream builder guarantees.
func (l *Location) Validate() error {
	if len(l.Keys) == 0 {
		return ErrNoKeys
	}
	if l.Keys[0] == "" {
		return fmt.Errorf("location %q: empty canonical key", l.InternalPath)
	}
	if l.Type == TypeBundle && l.BundleName == "" {
		return fmt.Errorf("bundle location %q: missing bundle name", l.Keys[0])
	}
	return nil
}
