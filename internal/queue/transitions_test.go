package queue

import (
	"errors"
	"testing"
	"time"
)

func newQueuedDoc(id string, now time.Time) *Document {
	doc := NewDocument()
	doc.Queue = append(doc.Queue, id)
	doc.Items[id] = &JobRecord{
		ID:        id,
		SourceKey: "audio/a.mp3",
		Status:    StatusQueued,
		NextTryAt: now,
		CreatedAt: now,
	}
	return doc
}

func TestMarkProcessingThenDone(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := newQueuedDoc("j1", now)
	record := doc.Items["j1"]

	doc.MarkProcessing(record, now)
	if record.Status != StatusProcessing {
		t.Fatalf("status = %q, want processing", record.Status)
	}
	if !doc.InQueue("j1") {
		t.Fatal("processing record must stay queued until terminal")
	}

	doc.MarkDone(record, "shorts/a-9x16.mp4", now.Add(time.Minute))
	if record.Status != StatusDone {
		t.Fatalf("status = %q, want done", record.Status)
	}
	if record.Output != "shorts/a-9x16.mp4" {
		t.Fatalf("output = %q", record.Output)
	}
	if doc.InQueue("j1") {
		t.Fatal("done record must leave the queue")
	}
	if _, ok := doc.Items["j1"]; !ok {
		t.Fatal("done record must stay queryable")
	}
}

func TestMarkFailureSchedulesRetry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := newQueuedDoc("j1", now)
	record := doc.Items["j1"]
	doc.MarkProcessing(record, now)

	doc.MarkFailure(record, errors.New("encoder crashed"), false, 3, now)
	if record.Status != StatusRetry {
		t.Fatalf("status = %q, want retry", record.Status)
	}
	if record.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", record.Attempts)
	}
	if record.Error != "encoder crashed" {
		t.Fatalf("error = %q", record.Error)
	}
	wantNext := now.Add(Backoff(1))
	if !record.NextTryAt.Equal(wantNext) {
		t.Fatalf("nextTryAt = %v, want %v", record.NextTryAt, wantNext)
	}
	if !doc.InQueue("j1") {
		t.Fatal("retry record must stay in the queue")
	}
}

func TestMarkFailureExhaustsRetries(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := newQueuedDoc("j1", now)
	record := doc.Items["j1"]

	for i := 0; i < 3; i++ {
		doc.MarkProcessing(record, now)
		doc.MarkFailure(record, errors.New("encoder crashed"), false, 3, now)
		now = now.Add(time.Minute)
	}

	if record.Status != StatusError {
		t.Fatalf("status = %q, want error", record.Status)
	}
	if record.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", record.Attempts)
	}
	if doc.InQueue("j1") {
		t.Fatal("error record must leave the queue")
	}
}

func TestMarkFailureTerminalSkipsRetryBudget(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := newQueuedDoc("j1", now)
	record := doc.Items["j1"]
	doc.MarkProcessing(record, now)

	doc.MarkFailure(record, errors.New("source gone"), true, 3, now)
	if record.Status != StatusError {
		t.Fatalf("status = %q, want error", record.Status)
	}
	if record.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", record.Attempts)
	}
	if doc.InQueue("j1") {
		t.Fatal("terminal failure must leave the queue")
	}
}

func TestEligibility(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := &JobRecord{Status: StatusRetry, NextTryAt: now.Add(time.Minute)}
	if record.Eligible(now) {
		t.Fatal("future nextTryAt should not be eligible")
	}
	if !record.Eligible(now.Add(time.Minute)) {
		t.Fatal("record should become eligible at nextTryAt")
	}

	for _, status := range []Status{StatusProcessing, StatusDone, StatusError} {
		record := &JobRecord{Status: status, NextTryAt: now}
		if record.Eligible(now) {
			t.Fatalf("status %q should never be eligible", status)
		}
	}
}

func TestNextEligibleIsFIFO(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := NewDocument()
	for _, id := range []string{"a", "b", "c"} {
		doc.Queue = append(doc.Queue, id)
		doc.Items[id] = &JobRecord{ID: id, Status: StatusQueued, NextTryAt: now}
	}
	doc.Items["a"].NextTryAt = now.Add(time.Hour)

	got := doc.NextEligible(now)
	if got == nil || got.ID != "b" {
		t.Fatalf("NextEligible = %+v, want b", got)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ParseStatus(" Queued "); !ok || status != StatusQueued {
		t.Fatalf("ParseStatus = %q, %v", status, ok)
	}
	if _, ok := ParseStatus("sleeping"); ok {
		t.Fatal("unknown status should not parse")
	}
}
