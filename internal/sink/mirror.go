package sink

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // gs:// driver
	_ "gocloud.dev/blob/s3blob"   // s3:// driver
)

// mirror publishes catalog files to a bucket in addition to the local build
// directories, keyed as <catalog>/<filename>.
type mirror struct {
	url string
}

func (m *mirror) publish(ctx context.Context, catalogName, fileName string, data []byte) error {
	bucket, err := blob.OpenBucket(ctx, m.url)
	if err != nil {
		return fmt.Errorf("open mirror bucket %s: %w", m.url, err)
	}
	defer bucket.Close()

	key := catalogName + "/" + fileName
	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("create writer for %s: %w", key, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %s: %w", key, err)
	}
	return nil
}
