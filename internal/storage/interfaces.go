// Package storage defines the media store abstraction for the site bucket.
// The ingest loop writes processed audio and cover art here; the CDN serves
// the same objects directly, so object keys mirror the public URL paths.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// MediaStore persists site media objects.
type MediaStore interface {
	// Put stores an object under the given key.
	// size may be -1 when the length is unknown.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Get retrieves an object. The caller must close the returned reader.
	// Returns ErrObjectNotFound if the key does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)
}
