// Package services defines the shared error taxonomy for pipeline
// collaborators.
//
// Collaborator failures are tagged with sentinel markers so the worker's
// catch boundary can decide between job-level retry, in-run degradation,
// and terminal failure without inspecting error strings.
package services
