package whisper

import "time"

// Config selects the whisper binary, model, and language.
type Config struct {
	Binary   string
	Model    string
	Language string
	Timeout  time.Duration
}

const (
	// DefaultBinary is the whisper CLI entry point.
	DefaultBinary = "whisper"
	// DefaultModel balances speed against accuracy for short clips.
	DefaultModel = "base"
)
