package queue

import "time"

// MarkProcessing transitions an eligible record to processing. The caller
// persists the document before starting work so the transition is visible
// even if the render dies midway.
func (d *Document) MarkProcessing(record *JobRecord, now time.Time) {
	record.Status = StatusProcessing
	record.Error = ""
	record.UpdatedAt = now.UTC()
}

// MarkDone records a successful render, stores the output key, and retires
// the id from the pending queue.
func (d *Document) MarkDone(record *JobRecord, outputKey string, now time.Time) {
	record.Status = StatusDone
	record.Output = outputKey
	record.Error = ""
	record.UpdatedAt = now.UTC()
	d.RemoveFromQueue(record.ID)
}

// MarkFailure records a failed attempt. The attempt counter increments;
// once it reaches maxRetries (or the failure is terminal) the record goes
// to error and leaves the queue, otherwise it is scheduled for retry after
// the backoff delay.
func (d *Document) MarkFailure(record *JobRecord, failure error, terminal bool, maxRetries int, now time.Time) {
	record.Attempts++
	record.UpdatedAt = now.UTC()
	if failure != nil {
		record.Error = failure.Error()
	}

	if terminal || record.Attempts >= maxRetries {
		record.Status = StatusError
		d.RemoveFromQueue(record.ID)
		return
	}

	record.Status = StatusRetry
	record.NextTryAt = now.UTC().Add(Backoff(record.Attempts))
}
