package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"clipcast/internal/config"
	"clipcast/internal/objectstore"
	"clipcast/internal/queue"
)

// NewObjectStore creates a local filesystem object store rooted in the
// test config's data directory.
func NewObjectStore(t testing.TB, cfg *config.Config) *objectstore.LocalFS {
	t.Helper()
	return objectstore.NewLocalFS(filepath.Join(cfg.Paths.DataDir, "objects"), cfg.Store.PublicBaseURL)
}

// NewQueueStore opens a queue store over a fresh object store for tests.
func NewQueueStore(t testing.TB, cfg *config.Config) (*queue.Store, *objectstore.LocalFS) {
	t.Helper()
	objects := NewObjectStore(t, cfg)
	store := queue.NewStore(objects, cfg.Store.JobsKey, cfg.Worker.MaxDurationSeconds)
	return store, objects
}

// Enqueue adds a job for tests using the provided store.
func Enqueue(t testing.TB, store *queue.Store, sourceKey, title string) *queue.JobRecord {
	t.Helper()

	record, err := store.Enqueue(context.Background(), queue.EnqueueRequest{SourceKey: sourceKey, Title: title})
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return record
}
