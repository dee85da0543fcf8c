package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound reports that a key has no stored object.
var ErrNotFound = errors.New("object not found")

// Store is the blob storage collaborator consumed by the queue, worker,
// and publisher.
type Store interface {
	// Get opens the object at key for reading. Returns ErrNotFound when
	// the key does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Put writes the object at key, replacing any previous content.
	Put(ctx context.Context, key string, reader io.Reader) (int64, error)
	// List returns the keys under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Copy duplicates the object at src to dst.
	Copy(ctx context.Context, src, dst string) error
	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL resolves a key to a publicly reachable URL.
	PublicURL(key string) string
}

// GetBytes reads the full object at key into memory.
func GetBytes(ctx context.Context, store Store, key string) ([]byte, error) {
	rc, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
