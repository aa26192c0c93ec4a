package imagestore

import (
	"context"
	"time"

	"github.com/mkrupp/homecase-camera/internal/domain"
)

// Store defines the interface for the image storage directory. It is the only
// surface through which image files are created, read or deleted; no other
// component touches the storage path directly.
type Store interface {
	// Save persists encoded image bytes under a freshly generated unique
	// filename and returns the stored image's metadata.
	// Failures wrap domain.ErrStorage.
	Save(ctx context.Context, data []byte, format domain.Format) (domain.StoredImage, error)

	// Read returns the bytes of a stored image. Filenames containing path
	// separators or traversal sequences, or not matching the generator's
	// naming scheme, are rejected before the filesystem is touched.
	// A missing file yields domain.ErrNotFound.
	Read(ctx context.Context, filename string) ([]byte, error)

	// ListExpired returns all stored images whose age meets or exceeds the
	// given retention, in arbitrary order.
	ListExpired(ctx context.Context, retention time.Duration) ([]domain.StoredImage, error)

	// Delete removes a stored image. Deleting a file that no longer exists
	// is not an error; a concurrent sweep may already have removed it.
	Delete(ctx context.Context, filename string) error
}
