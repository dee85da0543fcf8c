// Package daemon coordinates the long-running clipcast process.
//
// It wires configuration, the job queue, the render worker, and the
// HTTP API into a single lifecycle with flock-based locking to prevent
// multiple instances. One daemon means one worker, which is what keeps
// whole-document queue writes safe.
//
// Keep orchestration logic here: pipeline steps live in their own
// packages while the daemon focuses on startup, shutdown, and the API
// surface.
package daemon
