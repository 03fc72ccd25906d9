// Package splitter orchestrates the full catalog split pass:
// partition → dependency closure → artifact relocation → serialization.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/packlane/catalog-splitter/internal/catalog"
	"github.com/packlane/catalog-splitter/internal/cleaner"
	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/groups"
	"github.com/packlane/catalog-splitter/internal/location"
	"github.com/packlane/catalog-splitter/internal/logging"
	"github.com/packlane/catalog-splitter/internal/metrics"
	"github.com/packlane/catalog-splitter/internal/profile"
	"github.com/packlane/catalog-splitter/internal/relocate"
	"github.com/packlane/catalog-splitter/internal/sink"
	"github.com/packlane/catalog-splitter/internal/source"
)

// Version information (set via ldflags)
var (
	Version = "v0.1.0"
	GitSHA  = "unknown"
)

// ErrDefaultBuildPath is returned when the default build path cannot be
// resolved; nothing can be relocated without it.
var ErrDefaultBuildPath = errors.New("default build path resolved to empty")

// Splitter runs complete catalog split passes. All per-pass state (partition
// lists, copy records, the graph index) is created fresh inside Run, so one
// Splitter can serve repeated invocations of the host process.
type Splitter struct {
	cfg      *config.Config
	src      source.BuildSource
	snk      sink.Sink
	resolver profile.Resolver
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New creates a splitter. m may be nil when metrics are disabled.
func New(cfg *config.Config, src source.BuildSource, snk sink.Sink, m *metrics.Metrics) *Splitter {
	return &Splitter{
		cfg:      cfg,
		src:      src,
		snk:      snk,
		resolver: profile.NewMapResolver(cfg.Profile),
		metrics:  m,
		log:      slog.With("component", "splitter"),
	}
}

// Run executes one full split pass. The pass is sequential and runs to
// completion or fails outright; partitioning and closure problems are
// reported as warnings, path resolution and file-system problems abort.
func (s *Splitter) Run(ctx context.Context) error {
	buildID := uuid.NewString()
	start := time.Now()

	doc, err := s.src.Locations(ctx)
	if err != nil {
		return fmt.Errorf("load location list: %w", err)
	}

	lookup, err := s.src.Layout(ctx)
	if err != nil {
		return fmt.Errorf("load layout manifest: %w", err)
	}

	target := doc.BuildTarget
	if target == "" {
		target = s.cfg.Build.Target
	}
	defaultName := doc.DefaultCatalog.Name
	if defaultName == "" {
		defaultName = s.cfg.Build.DefaultCatalog
	}
	defaultFile := doc.DefaultCatalog.FileName
	if defaultFile == "" {
		defaultFile = s.cfg.Build.DefaultFileName
	}

	log := logging.PassLogger(buildID, target)

	defaultBuildPath := strings.TrimSpace(s.resolver.Resolve("{" + s.cfg.Build.BuildPathVar + "}"))
	if defaultBuildPath == "" {
		return fmt.Errorf("%w: variable %q", ErrDefaultBuildPath, s.cfg.Build.BuildPathVar)
	}
	defaultLoadPath := s.resolver.Resolve("{" + s.cfg.Build.LoadPathVar + "}")
	if defaultLoadPath == "" {
		defaultLoadPath = defaultBuildPath
	}

	log.Info("starting split pass",
		"locations", len(doc.Locations),
		"catalogs", len(s.cfg.Catalogs),
	)

	if s.metrics != nil {
		s.metrics.LocationsTotal.Set(float64(len(doc.Locations)))
	}

	graph := location.NewGraph(doc.Locations)

	specs, err := catalog.Specs(s.cfg.Catalogs)
	if err != nil {
		return err
	}

	partitioner := catalog.NewPartitioner(s.resolver, log)
	res, err := partitioner.Partition(defaultName, defaultBuildPath, defaultLoadPath, doc.Locations, specs)
	if err != nil {
		return err
	}

	unresolved := 0
	for _, part := range res.Named {
		clog := logging.CatalogLogger(buildID, part.Name)
		before := len(part.Locations)
		missing := catalog.Close(part, graph, clog)
		unresolved += len(missing)

		if s.metrics != nil {
			s.metrics.LocationsPartitioned.WithLabelValues(part.Name).Add(float64(before))
			s.metrics.DependenciesPulled.WithLabelValues(part.Name).Add(float64(len(part.Locations) - before))
			s.metrics.UnresolvedRefs.WithLabelValues(part.Name).Add(float64(len(missing)))
		}

		clog.Debug("closed partition",
			"claimed", before,
			"pulled", len(part.Locations)-before,
			"unresolved", len(missing),
		)
	}
	if s.metrics != nil {
		s.metrics.LocationsPartitioned.WithLabelValues(defaultName).Add(float64(len(res.Default.Locations)))
	}

	if err := s.relocate(buildID, defaultBuildPath, lookup, res.Named, log); err != nil {
		return err
	}

	infos := catalog.Assemble(res, defaultFile, buildID, target, time.Now().UTC())
	if err := s.snk.Write(ctx, infos); err != nil {
		return err
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.PassDuration.Observe(elapsed.Seconds())
	}
	log.Info("split pass complete",
		"catalogs_written", len(infos),
		"default_locations", len(res.Default.Locations),
		"unresolved_references", unresolved,
		"duration", elapsed.String(),
	)
	return nil
}

// relocate moves bundle artifacts claimed by named partitions out of the
// default build directory, sweeping leftovers from an interrupted previous
// pass first.
func (s *Splitter) relocate(buildID, defaultBuildPath string, lookup groups.Lookup, parts []*catalog.Partition, log *slog.Logger) error {
	journal, err := relocate.NewJournal(s.cfg.Journal)
	if err != nil {
		return err
	}

	if journal != nil {
		swept, err := journal.Sweep()
		if err != nil {
			return fmt.Errorf("sweep previous relocation journal: %w", err)
		}
		if swept > 0 {
			log.Info("swept leftover sources from previous pass", "count", swept)
		}
	}

	rel := relocate.New(defaultBuildPath, s.cfg.Build.BuildPathVar, lookup, journal, log)
	if err := rel.Relocate(buildID, parts); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.BundlesCopied.Add(float64(len(rel.CopiedSources())))
		s.metrics.SourcesDeleted.Add(float64(rel.Deleted()))
	}
	return nil
}

// Clean removes previously emitted catalog build directories, guarding the
// configured project roots.
func (s *Splitter) Clean() error {
	protected := []string{s.cfg.Build.ProjectRoot, s.cfg.Build.AssetsRoot}
	cl := cleaner.New(s.resolver, protected, s.log)
	removed, err := cl.Clean(s.cfg.Catalogs)
	if s.metrics != nil {
		s.metrics.DirectoriesCleaned.Add(float64(removed))
	}
	return err
}
