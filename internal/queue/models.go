package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a render job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusRetry      Status = "retry"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

var allStatuses = []Status{
	StatusQueued,
	StatusProcessing,
	StatusRetry,
	StatusDone,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status can never transition again.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusError
}

// JobRecord is one request to render a video artifact from one audio source.
// Records are created on enqueue, mutated only by the worker, and never
// deleted; terminal records remain queryable.
type JobRecord struct {
	ID                 string    `json:"id"`
	SourceKey          string    `json:"sourceKey"`
	Title              string    `json:"title,omitempty"`
	MaxDurationSeconds int       `json:"maxDurationSeconds"`
	Status             Status    `json:"status"`
	Attempts           int       `json:"attempts"`
	NextTryAt          time.Time `json:"nextTryAt"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	Output             string    `json:"output,omitempty"`
	Error              string    `json:"error,omitempty"`
}

// Eligible reports whether the record is due for processing at now.
func (r *JobRecord) Eligible(now time.Time) bool {
	if r == nil {
		return false
	}
	switch r.Status {
	case StatusQueued, StatusRetry:
		return !r.NextTryAt.After(now)
	default:
		return false
	}
}

// Document is the durable representation of the whole queue: the ordered
// list of non-terminal job ids plus every record by id. Version guards
// whole-document writes against concurrent writers.
type Document struct {
	Queue   []string              `json:"queue"`
	Items   map[string]*JobRecord `json:"items"`
	Version int64                 `json:"version"`
}

// NewDocument returns an empty queue document.
func NewDocument() *Document {
	return &Document{Items: make(map[string]*JobRecord)}
}

// NextEligible returns the first queued id whose record is due at now,
// preserving FIFO order. Returns nil when no job is eligible.
func (d *Document) NextEligible(now time.Time) *JobRecord {
	for _, id := range d.Queue {
		if record := d.Items[id]; record.Eligible(now) {
			return record
		}
	}
	return nil
}

// RemoveFromQueue drops id from the pending queue, keeping its record.
func (d *Document) RemoveFromQueue(id string) {
	for i, queued := range d.Queue {
		if queued == id {
			d.Queue = append(d.Queue[:i], d.Queue[i+1:]...)
			return
		}
	}
}

// InQueue reports whether id is still awaiting a future tick.
func (d *Document) InQueue(id string) bool {
	for _, queued := range d.Queue {
		if queued == id {
			return true
		}
	}
	return false
}
