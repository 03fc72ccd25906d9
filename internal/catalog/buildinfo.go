package catalog

import (
	"fmt"
	"time"

	"github.com/packlane/catalog-splitter/internal/location"
)

// BuildInfo is one catalog's record handed to the serialization sink.
type BuildInfo struct {
	Name      string               `json:"name"`
	FileName  string               `json:"file_name"`
	BuildPath string               `json:"build_path"`
	LoadPath  string               `json:"load_path"`
	BuildID   string               `json:"build_id"`
	Target    string               `json:"build_target"`
	BuiltAt   time.Time            `json:"built_at"`
	Locations []*location.Location `json:"locations"`
}

// Assemble produces the final ordered catalog set: the default catalog first,
// then every non-empty named partition in configuration order. Empty named
// partitions are omitted.
func Assemble(res *Result, defaultFileName, buildID, target string, builtAt time.Time) []BuildInfo {
	infos := []BuildInfo{{
		Name:      res.Default.Name,
		FileName:  defaultFileName,
		BuildPath: res.Default.BuildPath,
		LoadPath:  res.Default.LoadPath,
		BuildID:   buildID,
		Target:    target,
		BuiltAt:   builtAt,
		Locations: res.Default.Locations,
	}}

	for _, part := range res.Named {
		if part.Empty() {
			continue
		}
		infos = append(infos, BuildInfo{
			Name:      part.Name,
			FileName:  fmt.Sprintf("catalog_%s.json", part.Name),
			BuildPath: part.BuildPath,
			LoadPath:  part.LoadPath,
			BuildID:   buildID,
			Target:    target,
			BuiltAt:   builtAt,
			Locations: part.Locations,
		})
	}

	return infos
}
