package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/packlane/catalog-splitter/internal/location"
	"github.com/packlane/catalog-splitter/internal/profile"
)

// Partition is one catalog's working state during a build pass. It is created
// fresh at the start of each pass and discarded at the end.
type Partition struct {
	Name      string
	BuildPath string // resolved build directory
	LoadPath  string // resolved runtime load path
	Locations []*location.Location

	// Bundles lists artifact filenames owned by this partition that need
	// physical relocation out of the default build directory.
	Bundles []string

	spec    *Spec
	present map[string]bool // canonical keys already in the partition
	bundles map[string]bool
}

func newPartition(name, buildPath, loadPath string, spec *Spec) *Partition {
	return &Partition{
		Name:      name,
		BuildPath: buildPath,
		LoadPath:  loadPath,
		spec:      spec,
		present:   make(map[string]bool),
		bundles:   make(map[string]bool),
	}
}

// Add appends a location unless one with the same canonical key is already
// present. Returns true when the location was appended.
func (p *Partition) Add(loc *location.Location) bool {
	key := loc.PrimaryKey()
	if p.present[key] {
		return false
	}
	p.present[key] = true
	p.Locations = append(p.Locations, loc)
	return true
}

// Contains reports whether a location with the given canonical key is
// already in the partition.
func (p *Partition) Contains(key string) bool {
	return p.present[key]
}

// Empty reports whether the partition claimed no locations. Empty partitions
// are dropped from the final catalog list but still participate in cleanup
// bookkeeping.
func (p *Partition) Empty() bool {
	return len(p.Locations) == 0
}

func (p *Partition) trackBundle(file string) {
	if p.bundles[file] {
		return
	}
	p.bundles[file] = true
	p.Bundles = append(p.Bundles, file)
}

// Result is the outcome of partitioning one build pass.
type Result struct {
	Default *Partition
	Named   []*Partition // configuration order, including empty partitions
}

// Partitioner assigns locations to catalogs according to their specs.
type Partitioner struct {
	resolver profile.Resolver
	log      *slog.Logger
}

// NewPartitioner creates a partitioner using the given path resolver.
func NewPartitioner(resolver profile.Resolver, log *slog.Logger) *Partitioner {
	if log == nil {
		log = slog.Default()
	}
	return &Partitioner{resolver: resolver, log: log}
}

// Partition splits the default catalog's ordered location list into one
// partition per spec plus the default remainder.
//
// Every predicate is evaluated for every location; a location may join any
// number of named partitions. It stays in the default partition only when it
// matched no predicate at all. Bundle-typed locations joining a named
// partition are copied with a load path rewritten for that catalog, and the
// original artifact is tracked for relocation.
func (pt *Partitioner) Partition(defaultName, defaultBuildPath, defaultLoadPath string, locs []*location.Location, specs []*Spec) (*Result, error) {
	res := &Result{
		Default: newPartition(defaultName, defaultBuildPath, defaultLoadPath, nil),
	}

	for _, spec := range specs {
		if spec.rules.Empty() {
			pt.log.Warn("catalog has no membership rules and will stay empty", "catalog", spec.Name)
		}
		buildPath := strings.TrimSpace(pt.resolver.Resolve(spec.BuildPathExpr))
		if buildPath == "" {
			return nil, fmt.Errorf("catalog %q: build path %q resolved to empty", spec.Name, spec.BuildPathExpr)
		}
		loadPath := pt.resolver.Resolve(spec.LoadPathExpr)
		if loadPath == "" {
			// Load paths only affect runtime lookup strings, so an
			// unresolved expression is carried through verbatim.
			pt.log.Warn("load path unresolved, using expression",
				"catalog", spec.Name, "expr", spec.LoadPathExpr)
			loadPath = spec.LoadPathExpr
		}
		res.Named = append(res.Named, newPartition(spec.Name, buildPath, loadPath, spec))
	}

	for _, loc := range locs {
		matched := false
		for _, part := range res.Named {
			if !part.spec.Matches(loc) {
				continue
			}
			matched = true
			pt.claim(part, loc)
		}
		if !matched {
			res.Default.Add(loc)
		}
	}

	return res, nil
}

// claim places a location into a named partition. Bundle-typed locations get
// a fresh Location with the catalog's own load path; the original registers
// no dependency link back.
func (pt *Partitioner) claim(part *Partition, loc *location.Location) {
	if !loc.IsBundle() {
		part.Add(loc)
		return
	}

	// Load paths may be URLs, so join with a plain separator instead of
	// path.Join which would collapse the scheme's double slash.
	file := loc.BundleFile()
	rewritten := loc.WithInternalPath(strings.TrimRight(part.LoadPath, "/") + "/" + file)
	if part.Add(rewritten) {
		part.trackBundle(file)
		pt.log.Debug("claimed bundle",
			"catalog", part.Name,
			"bundle", file,
			"load_path", rewritten.InternalPath,
		)
	}
}
