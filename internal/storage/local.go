package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects as files under a directory served by the API
// process itself. Suitable for single-host deployments of the storefront.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the backing directory if needed.
func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Put writes the object to disk. O_EXCL refuses to clobber an existing file,
// which enforces the write-once contract.
func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader) error {
	path := filepath.Join(s.dir, filepath.Base(name))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrObjectExists
		}
		return fmt.Errorf("failed to create object file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write object: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close object file: %w", err)
	}

	return nil
}

// PublicURL returns the URL the object is served under.
func (s *LocalStore) PublicURL(name string) string {
	return s.baseURL + "/" + filepath.Base(name)
}

// Dir returns the backing directory, for mounting as a static file route.
func (s *LocalStore) Dir() string {
	return s.dir
}
