package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned by Get when nothing is stored at the path.
	ErrNotFound = errors.New("storage: object not found")
	// ErrInvalidPath is returned for paths that are absolute or escape the storage root.
	ErrInvalidPath = errors.New("storage: invalid path")
)

// Storage stores uploaded objects under relative slash-separated paths.
type Storage interface {
	// Save writes content to path, replacing anything stored there.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object at path. The caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}
