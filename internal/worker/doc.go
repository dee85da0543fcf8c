// Package worker drains the job queue. A single in-process loop wakes
// on a fixed tick, claims the oldest eligible job, persists the claim,
// and runs the render pipeline: fetch source audio, transcribe, merge
// caption lines, compose the filter graph, render, publish. Exactly
// one job is in flight at a time; failures either reschedule the job
// with exponential backoff or park it in error once retries run out.
package worker
