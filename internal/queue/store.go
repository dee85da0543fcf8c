package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"clipcast/internal/objectstore"
)

// EnqueueRequest describes a new render job.
type EnqueueRequest struct {
	SourceKey          string
	Title              string
	MaxDurationSeconds int
}

// Store manages queue persistence through the object store. The whole
// document is read, mutated in memory, and written back; SaveState rejects
// stale writes via the document version.
type Store struct {
	objects objectstore.Store
	key     string

	defaultMaxDuration int

	now func() time.Time
}

// NewStore constructs a queue store persisting under key in objects.
// defaultMaxDuration caps jobs that do not request a clip duration.
func NewStore(objects objectstore.Store, key string, defaultMaxDuration int) *Store {
	return &Store{
		objects:            objects,
		key:                key,
		defaultMaxDuration: defaultMaxDuration,
		now:                time.Now,
	}
}

// WithClock overrides the store clock (for tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// LoadState reads the current job document. A missing document yields a
// fresh empty one.
func (s *Store) LoadState(ctx context.Context) (*Document, error) {
	data, err := objectstore.GetBytes(ctx, s.objects, s.key)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("load job document: %w", err)
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse job document: %w", err)
	}
	if doc.Items == nil {
		doc.Items = make(map[string]*JobRecord)
	}
	return doc, nil
}

// SaveState writes the document back. The write fails with ErrConflict
// when the stored version no longer matches the version the document was
// loaded with; on success the document's version is advanced.
func (s *Store) SaveState(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}

	current, err := s.LoadState(ctx)
	if err != nil {
		return err
	}
	if current.Version != doc.Version {
		return fmt.Errorf("%w: stored version %d, loaded version %d", ErrConflict, current.Version, doc.Version)
	}

	doc.Version++
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		doc.Version--
		return fmt.Errorf("marshal job document: %w", err)
	}
	if _, err := s.objects.Put(ctx, s.key, bytes.NewReader(data)); err != nil {
		doc.Version--
		return fmt.Errorf("save job document: %w", err)
	}
	return nil
}

// Enqueue appends a new queued job and persists the document. Concurrent
// enqueuers are reconciled by reloading on version conflicts.
func (s *Store) Enqueue(ctx context.Context, req EnqueueRequest) (*JobRecord, error) {
	sourceKey := strings.TrimSpace(req.SourceKey)
	if sourceKey == "" {
		return nil, errors.New("source key is required")
	}
	maxDuration := req.MaxDurationSeconds
	if maxDuration <= 0 {
		maxDuration = s.defaultMaxDuration
	}

	var saveErr error
	for attempt := 0; attempt < 3; attempt++ {
		doc, err := s.LoadState(ctx)
		if err != nil {
			return nil, err
		}

		now := s.now().UTC()
		record := &JobRecord{
			ID:                 uuid.NewString(),
			SourceKey:          sourceKey,
			Title:              strings.TrimSpace(req.Title),
			MaxDurationSeconds: maxDuration,
			Status:             StatusQueued,
			Attempts:           0,
			NextTryAt:          now,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		doc.Queue = append(doc.Queue, record.ID)
		doc.Items[record.ID] = record

		saveErr = s.SaveState(ctx, doc)
		if saveErr == nil {
			return record, nil
		}
		if !errors.Is(saveErr, ErrConflict) {
			return nil, saveErr
		}
	}
	return nil, saveErr
}

// GetStatus returns the record for id, or ErrNotFound.
func (s *Store) GetStatus(ctx context.Context, id string) (*JobRecord, error) {
	doc, err := s.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	record, ok := doc.Items[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return record, nil
}

// List returns every record, pending first in queue order, then terminal
// records ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*JobRecord, error) {
	doc, err := s.LoadState(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(doc.Queue))
	records := make([]*JobRecord, 0, len(doc.Items))
	for _, id := range doc.Queue {
		if record, ok := doc.Items[id]; ok {
			records = append(records, record)
			seen[id] = struct{}{}
		}
	}

	rest := make([]*JobRecord, 0, len(doc.Items)-len(seen))
	for id, record := range doc.Items {
		if _, ok := seen[id]; !ok {
			rest = append(rest, record)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].CreatedAt.Equal(rest[j].CreatedAt) {
			return rest[i].ID < rest[j].ID
		}
		return rest[i].CreatedAt.Before(rest[j].CreatedAt)
	})
	return append(records, rest...), nil
}
