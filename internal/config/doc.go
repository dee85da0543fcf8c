// Package config loads, normalizes, and validates clipcast configuration.
//
// Configuration lives in a TOML file. Load applies repository defaults,
// overlays the file when present, expands all path fields to absolute
// locations, and rejects unusable values before any subsystem starts.
package config
