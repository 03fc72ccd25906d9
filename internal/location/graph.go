package location

// Graph is the default catalog's full location set, indexed by canonical key.
// It is the authoritative source for dependency lookups and is built once per
// build pass; repeated linear scans over the location list would make closure
// resolution quadratic.
type Graph struct {
	ordered []*Location
	byKey   map[string]*Location
}

// NewGraph indexes the default catalog's ordered location list. When two
// locations share a canonical key the first one wins, matching the order the
// upstream builder emitted them in.
func NewGraph(locations []*Location) *Graph {
	g := &Graph{
		ordered: locations,
		byKey:   make(map[string]*Location, len(locations)),
	}
	for _, loc := range locations {
		key := loc.PrimaryKey()
		if key == "" {
			continue
		}
		if _, exists := g.byKey[key]; !exists {
			g.byKey[key] = loc
		}
	}
	return g
}

// Resolve looks up a dependency reference by canonical key.
func (g *Graph) Resolve(key string) (*Location, bool) {
	loc, ok := g.byKey[key]
	return loc, ok
}

// Locations returns the ordered location list backing the graph.
func (g *Graph) Locations() []*Location {
	return g.ordered
}

// Len returns the number of locations in the graph.
func (g *Graph) Len() int {
	return len(g.ordered)
}
