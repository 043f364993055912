package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfrund/stylelens/internal/domain"
	"github.com/spf13/afero"
)

// AferoStore implements Store on top of an afero filesystem. The application
// runs it on a MemMapFs so captured photos and generated reports never touch disk.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewMemoryStore creates an AferoStore backed by a fresh in-memory filesystem.
func NewMemoryStore() *AferoStore {
	return NewAferoStore(afero.NewMemMapFs())
}

// Save writes the content of the reader to path, replacing any previous content.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := checkPath(path); err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, reader)
}

// Open opens path for reading. A missing file yields domain.ErrNotFound.
func (s *AferoStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	f, err := s.fs.OpenFile(path, os.O_RDONLY, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", path, domain.ErrNotFound)
	}
	return f, err
}

// Delete removes a single file. A missing file yields domain.ErrNotFound.
func (s *AferoStore) Delete(ctx context.Context, path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	err := s.fs.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", path, domain.ErrNotFound)
	}
	return err
}

// RemoveAll deletes path and any children.
func (s *AferoStore) RemoveAll(ctx context.Context, path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	return s.fs.RemoveAll(path)
}

// checkPath rejects absolute paths and directory traversal.
func checkPath(path string) error {
	if path == "" ||
		strings.Contains(path, "..") ||
		strings.HasPrefix(path, "/") ||
		strings.Contains(path, "\\") ||
		path != filepath.Clean(path) {
		return fmt.Errorf("unsafe storage path %q", path)
	}
	return nil
}
