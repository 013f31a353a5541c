package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps blobs on the local filesystem under a root directory.
type LocalStore struct {
	root       string
	publicBase string
}

func NewLocalStore(root, publicBase string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}

	return &LocalStore{root: root, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

// Root is the directory blobs are written under.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(k)), nil
}

// Put writes the blob through a temp file so readers never see partial content.
func (s *LocalStore) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}

	return s.URL(key), nil
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, notFound(err)
	}

	return f, nil
}

func (s *LocalStore) Size(_ context.Context, key string) (int64, error) {
	p, err := s.path(key)
	if err != nil {
		return 0, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return 0, notFound(err)
	}

	return fi.Size(), nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil {
		return notFound(err)
	}

	return nil
}

func (s *LocalStore) URL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(key, "/")
}

func (s *LocalStore) SignedURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrNoSignedURL
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
