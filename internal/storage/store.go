package storage

import (
	"context"
	"io"
)

// Store defines the interface for a blob storage backend keyed by relative path.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	// RemoveAll deletes path and everything below it. A missing path is not an error.
	RemoveAll(ctx context.Context, path string) error
}
