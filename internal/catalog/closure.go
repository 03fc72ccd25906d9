package catalog

import (
	"log/slog"

	"github.com/packlane/catalog-splitter/internal/location"
)

// Close expands a partition until every dependency reachable from its
// locations is present, resolving references through the default graph.
//
// Traversal is breadth-first and insertion order is traversal order, which
// keeps catalog serialization deterministic. A reference that resolves
// nowhere is reported, not fatal: the catalog is still emitted and the
// missing ids are returned for the caller to surface as warnings.
//
// Close is idempotent; running it on an already-closed partition appends
// nothing.
func Close(part *Partition, graph *location.Graph, log *slog.Logger) []string {
	if log == nil {
		log = slog.Default()
	}

	var missing []string
	reported := make(map[string]bool)
	seen := make(map[*location.Location]bool)

	queue := make([]*location.Location, len(part.Locations))
	copy(queue, part.Locations)

	for len(queue) > 0 {
		loc := queue[0]
		queue = queue[1:]

		if seen[loc] {
			continue
		}
		seen[loc] = true

		for _, dep := range loc.Dependencies {
			resolved, ok := graph.Resolve(dep)
			if !ok {
				if !part.Contains(dep) && !reported[dep] {
					reported[dep] = true
					missing = append(missing, dep)
					log.Warn("unresolvable dependency",
						"dependency", dep,
						"referenced_by", loc.PrimaryKey(),
					)
				}
				continue
			}

			part.Add(resolved)
			queue = append(queue, resolved)
		}
	}

	return missing
}
