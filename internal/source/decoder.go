package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/packlane/catalog-splitter/internal/groups"
)

var ErrInvalidDocument = errors.New("invalid location list document")

// Decoder handles decompression and parsing of builder outputs.
type Decoder struct {
	zstdDecoder *zstd.Decoder
}

// NewDecoder creates a new decoder.
func NewDecoder() (*Decoder, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Decoder{zstdDecoder: dec}, nil
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	if d.zstdDecoder != nil {
		d.zstdDecoder.Close()
	}
}

// Decompress returns the raw bytes of a possibly zstd-compressed payload.
func (d *Decoder) Decompress(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return data, nil
	}
	raw, err := d.zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return raw, nil
}

// DecodeDocument parses a location list document and validates every
// location's structural invariants.
func (d *Decoder) DecodeDocument(data []byte, compressed bool) (*Document, error) {
	raw, err := d.Decompress(data, compressed)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	for i, loc := range doc.Locations {
		if loc == nil {
			return nil, fmt.Errorf("%w: nil location at index %d", ErrInvalidDocument, i)
		}
		if err := loc.Validate(); err != nil {
			return nil, fmt.Errorf("%w: location %d: %v", ErrInvalidDocument, i, err)
		}
	}

	return &doc, nil
}

// DecodeLayout parses a group layout manifest.
func (d *Decoder) DecodeLayout(data []byte, compressed bool) (groups.Lookup, error) {
	raw, err := d.Decompress(data, compressed)
	if err != nil {
		return nil, err
	}
	return groups.ParseLayout(raw)
}

// IsCompressedName reports whether a path looks zstd-compressed.
func IsCompressedName(name string) bool {
	return strings.HasSuffix(name, ".zst")
}
