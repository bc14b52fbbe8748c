// Package storage persists uploaded attachment bytes on local disk. Metadata
// lives in Postgres; this layer only knows about files.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local stores files under a single root directory with uuid names, so
// original filenames never collide or reach the filesystem.
type Local struct {
	root string
}

// NewLocal creates a local store rooted at dir
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Local{root: dir}, nil
}

// Save writes r to a new file and returns its stored path and size
func (s *Local) Save(originalName string, r io.Reader) (string, int64, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	path := filepath.Join(s.root, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, r)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return path, size, nil
}

// Open opens a stored file for reading
func (s *Local) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored file. Missing files are not an error: the metadata
// row is the source of truth and may outlive a manually cleaned disk.
func (s *Local) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
