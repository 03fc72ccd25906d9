// Package cleaner removes previously emitted catalog output directories on a
// cache-clear operation.
package cleaner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/profile"
)

// Cleaner deletes named catalogs' build directories, refusing to touch
// protected project roots. The protected set is an explicit deny-list of
// canonical paths checked before any destructive call.
type Cleaner struct {
	resolver  profile.Resolver
	protected []string
	log       *slog.Logger
}

// New creates a cleaner guarding the given protected root directories
// (typically the project root and the assets root).
func New(resolver profile.Resolver, protectedRoots []string, log *slog.Logger) *Cleaner {
	if log == nil {
		log = slog.Default()
	}
	return &Cleaner{
		resolver:  resolver,
		protected: protectedRoots,
		log:       log,
	}
}

// Clean removes each configured catalog's build directory and returns the
// number of directories removed. Missing directories are skipped silently so
// a clean after a clean is a no-op. Directories matching a protected root
// are skipped entirely.
func (c *Cleaner) Clean(specs []*config.CatalogSpec) (int, error) {
	removed := 0
	for _, spec := range specs {
		if spec == nil {
			continue
		}

		dir := c.resolver.Resolve(spec.BuildPath)
		if dir == "" {
			// Best-effort fallback: the unresolved expression's variable
			// identifier names the directory as well as anything can.
			dir = c.resolver.SettingID(spec.BuildPath)
		}
		if dir == "" {
			continue
		}

		if root, protected := c.isProtected(dir); protected {
			c.log.Warn("refusing to clean protected directory",
				"catalog", spec.Name, "dir", dir, "protected_root", root)
			continue
		}

		if _, err := os.Stat(dir); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("stat build directory %s: %w", dir, err)
		}

		if err := os.RemoveAll(dir); err != nil {
			return removed, fmt.Errorf("clean catalog %q directory %s: %w", spec.Name, dir, err)
		}
		removed++
		c.log.Info("removed catalog build directory", "catalog", spec.Name, "dir", dir)
	}
	return removed, nil
}

// isProtected reports whether the candidate directory is one of the
// protected roots. Both sides are made absolute before comparing, so a
// relative root still guards the same directory spelled absolutely and vice
// versa. A candidate that cannot be canonicalized is refused outright.
func (c *Cleaner) isProtected(dir string) (string, bool) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return dir, true
	}
	for _, root := range c.protected {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if absDir == absRoot {
			return root, true
		}
	}
	return "", false
}
