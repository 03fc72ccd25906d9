package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/packlane/catalog-splitter/internal/catalog"
	"github.com/packlane/catalog-splitter/internal/config"
)

// JSONSink writes each catalog as a JSON file into its build directory,
// optionally zstd-compressed, and optionally mirrors the files to a bucket.
type JSONSink struct {
	compress bool
	encoder  *zstd.Encoder
	mirror   *mirror
	log      *slog.Logger
}

// NewJSONSink creates a sink from configuration.
func NewJSONSink(cfg config.SinkConfig, log *slog.Logger) (*JSONSink, error) {
	if log == nil {
		log = slog.Default()
	}

	s := &JSONSink{compress: cfg.Compress, log: log}

	if cfg.Compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		s.encoder = enc
	}

	if cfg.Mirror != "" {
		s.mirror = &mirror{url: cfg.Mirror}
	}

	return s, nil
}

// Write serializes every catalog. Location order inside each catalog is
// preserved exactly as the pipeline produced it.
func (s *JSONSink) Write(ctx context.Context, infos []catalog.BuildInfo) error {
	for _, info := range infos {
		data, err := json.MarshalIndent(&info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal catalog %q: %w", info.Name, err)
		}

		name := info.FileName
		if s.compress {
			data = s.encoder.EncodeAll(data, nil)
			name += ".zst"
		}

		path := filepath.Join(info.BuildPath, name)
		if err := writeAtomic(path, data); err != nil {
			return fmt.Errorf("write catalog %q: %w", info.Name, err)
		}

		s.log.Info("wrote catalog",
			"catalog", info.Name,
			"path", path,
			"locations", len(info.Locations),
			"bytes", len(data),
		)

		if s.mirror != nil {
			if err := s.mirror.publish(ctx, info.Name, name, data); err != nil {
				return fmt.Errorf("mirror catalog %q: %w", info.Name, err)
			}
		}
	}
	return nil
}

// Close releases encoder resources.
func (s *JSONSink) Close() error {
	if s.encoder != nil {
		s.encoder.Close()
	}
	return nil
}

// writeAtomic writes data via a temp file and rename so a crashed pass never
// leaves a truncated catalog behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("write temp file %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename %s to %s: %w", tempPath, path, err)
	}
	return nil
}
