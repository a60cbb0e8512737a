// Package blob stores raw screenshot bytes on the local filesystem,
// addressed by generated name. The metadata row lives in storage; the two are
// reconciled by the screenshot ingestor.
package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the byte-level interface the screenshot pipeline writes through.
type Store interface {
	// Write persists content under name. A partial write must never be
	// visible under the final name.
	Write(name string, content []byte) error
	// Read returns the stored bytes, or ErrBlobNotFound.
	Read(name string) ([]byte, error)
	// Delete removes the blob. Deleting a missing name is not an error.
	Delete(name string) error
	Exists(name string) bool
	// Path returns the filesystem path a name resolves to.
	Path(name string) string
}

var ErrBlobNotFound = errors.New("blob not found")

// FileStore keeps blobs as flat files in a single directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Path(name string) string {
	// Names are generated, but never trust them as paths.
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *FileStore) Write(name string, content []byte) error {
	final := s.Path(name)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	// Rename is atomic on the same filesystem, so a crashed write leaves
	// only an orphaned temp file, never a corrupt blob.
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}

func (s *FileStore) Read(name string) ([]byte, error) {
	content, err := os.ReadFile(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	return content, err
}

func (s *FileStore) Delete(name string) error {
	err := os.Remove(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}
