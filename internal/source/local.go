package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/groups"
)

// localSource reads builder outputs from the local filesystem.
type localSource struct {
	cfg     config.SourceConfig
	decoder *Decoder
}

func newLocalSource(cfg config.SourceConfig) (*localSource, error) {
	dec, err := NewDecoder()
	if err != nil {
		return nil, err
	}
	return &localSource{cfg: cfg, decoder: dec}, nil
}

func (s *localSource) Locations(ctx context.Context) (*Document, error) {
	data, err := os.ReadFile(s.cfg.Locations)
	if err != nil {
		return nil, fmt.Errorf("read location list %s: %w", s.cfg.Locations, err)
	}
	return s.decoder.DecodeDocument(data, s.compressed(s.cfg.Locations))
}

func (s *localSource) Layout(ctx context.Context) (groups.Lookup, error) {
	if s.cfg.Layout == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.cfg.Layout)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read layout manifest %s: %w", s.cfg.Layout, err)
	}
	return s.decoder.DecodeLayout(data, s.compressed(s.cfg.Layout))
}

func (s *localSource) compressed(name string) bool {
	return s.cfg.Compressed || IsCompressedName(name)
}

func (s *localSource) Close() error {
	s.decoder.Close()
	return nil
}
