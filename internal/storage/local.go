package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/yukikurage/edutask-api/internal/constants"
)

// LocalStore writes images to a directory served under /uploads
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the directory images are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes r to dir/name. A partially written file is removed on failure.
func (s *LocalStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if !validName(name) {
		return "", ErrInvalidName
	}

	fullPath := filepath.Join(s.dir, name)
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	return path.Join(constants.UploadsRoute, name), nil
}

// Delete removes dir/name; a missing file is not an error
func (s *LocalStore) Delete(_ context.Context, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
