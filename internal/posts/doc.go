// Package posts persists publication metadata for rendered clips in
// SQLite. A post records the source audio a clip came from, the title
// shown on the artifact, and the published media key once the render
// lands in the object store.
//
// Schema changes add a new file under migrations/; applied versions
// are tracked in schema_migrations and never re-run.
package posts
