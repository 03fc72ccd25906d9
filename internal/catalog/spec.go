// Package catalog partitions the default catalog's location list into named
// catalogs and closes each partition under the dependency graph.
package catalog

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/location"
)

// ErrBadPattern is returned when a membership rule contains an invalid glob.
var ErrBadPattern = errors.New("invalid membership pattern")

// Spec is a compiled named-catalog definition: a membership predicate plus
// the catalog's path expressions.
type Spec struct {
	Name          string
	BuildPathExpr string
	LoadPathExpr  string
	rules         config.RuleSet
}

// NewSpec compiles a configured catalog spec, validating its glob patterns
// up front so a bad pattern fails the pass instead of silently matching
// nothing.
func NewSpec(cfg *config.CatalogSpec) (*Spec, error) {
	for _, patterns := range [][]string{cfg.Include.Keys, cfg.Include.Paths, cfg.Include.Bundles} {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("%w: catalog %q pattern %q", ErrBadPattern, cfg.Name, p)
			}
		}
	}
	return &Spec{
		Name:          cfg.Name,
		BuildPathExpr: cfg.BuildPath,
		LoadPathExpr:  cfg.LoadPath,
		rules:         cfg.Include,
	}, nil
}

// Specs compiles the configured catalog list in configuration order.
// Nil entries are silently skipped.
func Specs(cfgs []*config.CatalogSpec) ([]*Spec, error) {
	specs := make([]*Spec, 0, len(cfgs))
	for _, cfg := range cfgs {
		if cfg == nil {
			continue
		}
		spec, err := NewSpec(cfg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Matches evaluates the membership predicate for a single location.
// Predicates across catalogs are independent; overlap is legal.
func (s *Spec) Matches(loc *location.Location) bool {
	for _, t := range s.rules.Types {
		if location.ResourceType(t) == loc.Type {
			return true
		}
	}
	for _, p := range s.rules.Providers {
		if p == loc.Provider {
			return true
		}
	}
	for _, pattern := range s.rules.Keys {
		for _, key := range loc.Keys {
			if ok, _ := doublestar.Match(pattern, key); ok {
				return true
			}
		}
	}
	for _, pattern := range s.rules.Paths {
		if ok, _ := doublestar.Match(pattern, loc.InternalPath); ok {
			return true
		}
	}
	if loc.BundleName != "" {
		for _, pattern := range s.rules.Bundles {
			if ok, _ := doublestar.Match(pattern, loc.BundleName); ok {
				return true
			}
		}
	}
	return false
}
