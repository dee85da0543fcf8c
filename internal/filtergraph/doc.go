// Package filtergraph assembles the layered visual composition as an
// ordered chain of tagged stage descriptors.
//
// Stages stay structured until Serialize renders the whole chain into
// ffmpeg filter_complex syntax; escaping of literal text happens in exactly
// one place there. The chain is linear by construction: every stage
// consumes the previous stage's output label and emits a new one.
package filtergraph
