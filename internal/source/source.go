// Package source loads the upstream builder's outputs: the default catalog's
// location list and the group layout manifest.
package source

import (
	"context"
	"errors"
	"strings"

	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/groups"
	"github.com/packlane/catalog-splitter/internal/location"
)

var ErrNoLocations = errors.New("source: no location list configured")

// DefaultCatalog identifies the catalog the base builder produced.
type DefaultCatalog struct {
	Name     string `json:"name"`
	FileName string `json:"file_name"`
}

// Document is the location list document emitted by the base builder.
// Location order is significant and preserved end to end.
type Document struct {
	BuildTarget    string               `json:"build_target"`
	DefaultCatalog DefaultCatalog       `json:"default_catalog"`
	Locations      []*location.Location `json:"locations"`
}

// BuildSource reads the builder's outputs from wherever the build dropped
// them (local path or bucket URL).
type BuildSource interface {
	Locations(ctx context.Context) (*Document, error)
	Layout(ctx context.Context) (groups.Lookup, error)
	Close() error
}

// New constructs a build source for the configured input paths. Bucket URLs
// (file://, gs://, s3://) are served through gocloud blob; everything else is
// treated as a local filesystem path.
func New(cfg config.SourceConfig) (BuildSource, error) {
	if cfg.Locations == "" {
		return nil, ErrNoLocations
	}
	if isBucketURL(cfg.Locations) {
		return newBlobSource(cfg)
	}
	return newLocalSource(cfg)
}

func isBucketURL(s string) bool {
	for _, scheme := range []string{"file://", "gs://", "s3://"} {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}
