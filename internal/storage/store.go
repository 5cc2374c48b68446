// Package storage persists image objects and derives their public URLs.
// Objects are append-only: re-submissions write under fresh keys, deletes are
// explicit by key, and nothing is ever mutated in place.
package storage

import (
	"context"
	"fmt"
)

// Store is the object-storage contract consumed by the upload pipeline.
type Store interface {
	// Upload writes data under key. With overwrite false the write must not
	// replace an existing object; with overwrite true it may, which is how
	// moodboard re-uploads keep a stable path.
	Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) error

	// PublicURL derives the durable public URL for a key. Pure derivation,
	// no round trip.
	PublicURL(key string) string

	// Delete removes the object stored under key. Deleting an absent key is
	// not an error at this layer.
	Delete(ctx context.Context, key string) error
}

// UploadError wraps a collaborator failure during upload. The collaborator's
// message is preserved verbatim so operators can see the storage-side cause.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("storage: upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DeleteError wraps a collaborator failure during delete.
type DeleteError struct {
	Key string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("storage: delete %s: %v", e.Key, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
