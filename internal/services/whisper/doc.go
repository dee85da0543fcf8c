// Package whisper shells out to the whisper CLI for speech-to-text.
//
// The service runs the transcriber against a local audio file and parses
// the JSON it writes next to the input. A missing or misconfigured binary
// is reported as services.ErrTranscriptionUnavailable so callers can
// degrade instead of failing the job.
package whisper
