// Package logging constructs slog loggers for the daemon and CLI.
//
// Output format is selectable between a human-oriented console handler and
// machine-readable JSON. Attr helpers keep call sites terse and consistent
// across packages.
package logging
