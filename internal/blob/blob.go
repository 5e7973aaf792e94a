// Package blob persists uploaded file bytes. The reference handed back by
// Save is what the content record stores in its data field, and what Open
// takes to stream the bytes back out.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no stored object matches the
// reference.
var ErrNotFound = errors.New("blob not found")

// Store is implemented by the disk, inline and object-storage backends.
type Store interface {
	// Save persists the bytes read from r and returns the storage
	// reference along with the number of bytes written.
	Save(ctx context.Context, origName, contentType string, r io.Reader) (ref string, size int64, err error)

	// Open streams a stored object back. Size is -1 when unknown.
	Open(ctx context.Context, ref string) (rc io.ReadCloser, size int64, err error)

	// Remove deletes a stored object. Removing a missing object is not an
	// error.
	Remove(ctx context.Context, ref string) error
}
