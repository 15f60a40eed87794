package filestorage

import (
	"context"
	"io"
)

// FileStorage defines the interface for file storage operations.
// Names are flat object names such as "photo_<id>.jpg".
type FileStorage interface {
	// Save stores the content of r under name and returns the name it was stored as
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)

	// Delete removes a stored file; deleting a missing file is not an error
	Delete(ctx context.Context, name string) error

	// URL returns where a stored file can be fetched from
	URL(name string) string
}
