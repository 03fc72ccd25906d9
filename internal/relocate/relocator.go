// Package relocate moves bundle artifacts from the default build directory
// into each named catalog's build directory.
//
// Movement is copy-all-then-delete-all: the same source bundle may be copied
// into several catalogs, so no source may be deleted until every planned copy
// exists. File-system errors are fatal; a half-moved build directory is worse
// than a failed build.
package relocate

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/packlane/catalog-splitter/internal/catalog"
	"github.com/packlane/catalog-splitter/internal/groups"
)

// Relocator copies claimed bundle artifacts into catalog build directories
// and removes the now-redundant default copies at the end of the pass.
type Relocator struct {
	defaultBuildPath string
	defaultPathVar   string // identity of the default build-path setting
	lookup           groups.Lookup
	journal          *Journal
	log              *slog.Logger

	copied  map[string]bool
	ordered []string // copy order, for deterministic deletion
	deleted int
}

// New creates a relocator. lookup may be nil when the build produced no
// layout manifest; every bundle is then assumed to have been built into the
// default build path. journal may be nil to disable journaling.
func New(defaultBuildPath, defaultPathVar string, lookup groups.Lookup, journal *Journal, log *slog.Logger) *Relocator {
	if log == nil {
		log = slog.Default()
	}
	return &Relocator{
		defaultBuildPath: defaultBuildPath,
		defaultPathVar:   defaultPathVar,
		lookup:           lookup,
		journal:          journal,
		log:              log,
		copied:           make(map[string]bool),
	}
}

// Relocate copies every claimed bundle into its partitions' build
// directories, then deletes the default-directory sources exactly once.
func (r *Relocator) Relocate(buildID string, parts []*catalog.Partition) error {
	for _, part := range parts {
		if part.Empty() {
			continue
		}
		if err := r.copyPartition(part); err != nil {
			return err
		}
	}

	if r.journal != nil && len(r.ordered) > 0 {
		if err := r.journal.Record(buildID, r.ordered); err != nil {
			r.log.Warn("failed to write relocation journal", "error", err)
		}
	}

	if err := r.deleteCopied(); err != nil {
		return err
	}

	if r.journal != nil {
		if err := r.journal.Clear(); err != nil {
			r.log.Warn("failed to clear relocation journal", "error", err)
		}
	}
	return nil
}

// copyPartition copies one partition's bundles into its build directory.
func (r *Relocator) copyPartition(part *catalog.Partition) error {
	for _, file := range part.Bundles {
		if !r.builtToDefaultPath(file) {
			r.log.Debug("bundle built to custom path, leaving in place",
				"catalog", part.Name, "bundle", file)
			continue
		}

		src := filepath.Join(r.defaultBuildPath, file)
		dst := filepath.Join(part.BuildPath, file)
		if samePath(src, dst) {
			continue
		}

		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("relocate bundle %s to catalog %q: %w", file, part.Name, err)
		}

		if !r.copied[src] {
			r.copied[src] = true
			r.ordered = append(r.ordered, src)
		}

		r.log.Debug("copied bundle",
			"catalog", part.Name,
			"bundle", file,
			"dst", dst,
		)
	}
	return nil
}

// builtToDefaultPath reports whether the bundle's owning group builds into
// the default build path. The comparison is by path-setting identity, not by
// resolved string, so two differently expressed but equal paths never count
// as the default.
func (r *Relocator) builtToDefaultPath(file string) bool {
	if r.lookup == nil {
		return true
	}
	group, ok := r.lookup.GroupFor(file)
	if !ok {
		r.log.Warn("bundle has no owning group in layout, leaving in place", "bundle", file)
		return false
	}
	return group.BuildPathVar == r.defaultPathVar
}

// deleteCopied removes every recorded source that still exists. Sources
// already gone (a previous partially-failed pass) are skipped silently.
func (r *Relocator) deleteCopied() error {
	for _, src := range r.ordered {
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat relocated source %s: %w", src, err)
		}
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("delete relocated source %s: %w", src, err)
		}
		r.deleted++
		r.log.Debug("deleted default copy", "src", src)
	}
	return nil
}

// CopiedSources returns the source paths copied this pass, in copy order.
func (r *Relocator) CopiedSources() []string {
	return r.ordered
}

// Deleted returns the number of sources actually removed this pass. Sources
// already gone before the delete phase are not counted.
func (r *Relocator) Deleted() int {
	return r.deleted
}

// samePath reports whether two paths name the same location once both are
// made absolute; a relative and an absolute spelling of one directory must
// not pass as distinct, or the copy would truncate its own source.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// copyFile copies src over dst, creating the destination directory and
// overwriting any existing file.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", filepath.Dir(dst), err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}
