package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSStore keeps blobs in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) object(key string) (*storage.ObjectHandle, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	return s.client.Bucket(s.bucket).Object(k), nil
}

func (s *GCSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	obj, err := s.object(key)
	if err != nil {
		return "", err
	}

	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	if _, err = io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}
	if err = wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return s.URL(key), nil
}

func (s *GCSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.object(key)
	if err != nil {
		return nil, err
	}
	rc, err := obj.NewReader(ctx)
	if err != nil {
		return nil, gcsNotFound(err)
	}

	return rc, nil
}

func (s *GCSStore) Size(ctx context.Context, key string) (int64, error) {
	obj, err := s.object(key)
	if err != nil {
		return 0, err
	}
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return 0, gcsNotFound(err)
	}

	return attrs.Size, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	obj, err := s.object(key)
	if err != nil {
		return err
	}
	if err = obj.Delete(ctx); err != nil {
		return gcsNotFound(err)
	}

	return nil
}

func (s *GCSStore) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", gcsPublicHost, s.bucket, key)
}

func (s *GCSStore) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	url, err := s.client.Bucket(s.bucket).SignedURL(k, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return url, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func gcsNotFound(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
