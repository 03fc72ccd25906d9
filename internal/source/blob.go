package source

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// driver
	_ "gocloud.dev/blob/s3blob"   // s3:// driver

	"github.com/packlane/catalog-splitter/internal/config"
	"github.com/packlane/catalog-splitter/internal/groups"
)

// blobSource reads builder outputs from a bucket through gocloud blob.
type blobSource struct {
	cfg     config.SourceConfig
	decoder *Decoder
}

func newBlobSource(cfg config.SourceConfig) (*blobSource, error) {
	dec, err := NewDecoder()
	if err != nil {
		return nil, err
	}
	return &blobSource{cfg: cfg, decoder: dec}, nil
}

// splitBucketURL splits an object URL into the bucket URL gocloud opens and
// the object key inside it.
func splitBucketURL(raw string) (bucketURL, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse bucket URL %s: %w", raw, err)
	}

	dir, file := path.Split(u.Path)
	if file == "" {
		return "", "", fmt.Errorf("bucket URL %s has no object key", raw)
	}

	switch u.Scheme {
	case "file":
		// fileblob buckets are directories.
		return "file://" + strings.TrimSuffix(dir, "/"), file, nil
	default:
		return u.Scheme + "://" + u.Host, strings.TrimPrefix(path.Join(dir, file), "/"), nil
	}
}

func (s *blobSource) read(ctx context.Context, raw string) ([]byte, error) {
	bucketURL, key, err := splitBucketURL(raw)
	if err != nil {
		return nil, err
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketURL, err)
	}
	defer bucket.Close()

	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s from %s: %w", key, bucketURL, err)
	}
	return data, nil
}

func (s *blobSource) Locations(ctx context.Context) (*Document, error) {
	data, err := s.read(ctx, s.cfg.Locations)
	if err != nil {
		return nil, err
	}
	return s.decoder.DecodeDocument(data, s.compressed(s.cfg.Locations))
}

func (s *blobSource) Layout(ctx context.Context) (groups.Lookup, error) {
	if s.cfg.Layout == "" {
		return nil, nil
	}
	data, err := s.read(ctx, s.cfg.Layout)
	if err != nil {
		return nil, err
	}
	return s.decoder.DecodeLayout(data, s.compressed(s.cfg.Layout))
}

func (s *blobSource) compressed(name string) bool {
	return s.cfg.Compressed || IsCompressedName(name)
}

func (s *blobSource) Close() error {
	s.decoder.Close()
	return nil
}
