// Package queue persists render jobs as a single durable document and
// exposes helpers for driving their lifecycle.
//
// The document holds the FIFO queue of pending job ids plus a map of every
// job record ever enqueued; terminal records leave the queue but stay
// queryable. Persistence goes through the object store with whole-document
// read-modify-write and an optimistic version check, so exactly one worker
// may process jobs at a time.
//
// Treat this package as the single source of truth for job lifecycle
// semantics; status transitions live in transitions.go and nowhere else.
package queue
