// Package sink serializes the final catalog set.
//
// The catalog format itself is opaque to the rest of the pipeline: the
// splitter hands over ordered build-info records and this package decides how
// they land on disk.
package sink

import (
	"context"

	"github.com/packlane/catalog-splitter/internal/catalog"
)

// Sink consumes the final ordered catalog set.
type Sink interface {
	// Write serializes every catalog into its build directory.
	Write(ctx context.Context, infos []catalog.BuildInfo) error
	Close() error
}
