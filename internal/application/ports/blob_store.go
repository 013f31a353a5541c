package ports

import (
	"context"
	"io"
	"time"
)

// BlobStore holds the raw uploaded files. Missing keys yield blob.ErrNotFound.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Size(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
