package ports

import (
	"context"
	"io"
)

// ImageStore persists uploaded images.
type ImageStore interface {
	// Save writes r under a fresh name derived from filename and returns the
	// public path (e.g. "images/<name>").
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Remove deletes the file at a path previously returned by Save.
	Remove(path string) error
}

// ImageDiscarder schedules removal of images that are no longer referenced.
type ImageDiscarder interface {
	Discard(path string)
}
