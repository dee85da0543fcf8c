package queue

import "errors"

// ErrNotFound reports a status query for an unknown job id.
var ErrNotFound = errors.New("job not found")

// ErrConflict reports a stale whole-document write: another writer saved a
// newer version since this document was loaded. The caller should reload
// and retry on the next tick.
var ErrConflict = errors.New("job document version conflict")
