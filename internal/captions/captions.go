package captions

import (
	"context"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Segment is a raw transcription unit: start < end, ordered by start,
// non-overlapping.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Line is a merged, wrapped display unit derived from one or more segments.
type Line struct {
	Start float64
	End   float64
	Text  string
}

// Transcriber is the speech-to-text collaborator.
type Transcriber interface {
	// Transcribe converts local audio into ordered segments. It returns
	// services.ErrTranscriptionUnavailable (wrapped) when the collaborator
	// is missing or misconfigured.
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}

// Window is the clip extracted from the source audio.
type Window struct {
	StartSeconds    int
	DurationSeconds int
}

const minClipSeconds = 5

// ClipWindow derives the clip extent from the transcribed segments:
// the clip starts at the floor of the first segment and runs to the
// ceiling of the last one, clamped to [minClipSeconds, requestedMax].
func ClipWindow(segments []Segment, requestedMax int) Window {
	if len(segments) == 0 {
		return Window{StartSeconds: 0, DurationSeconds: min(requestedMax, minClipSeconds)}
	}

	start := int(math.Floor(segments[0].Start))
	if start < 0 {
		start = 0
	}
	duration := int(math.Ceil(segments[len(segments)-1].End))
	if duration < minClipSeconds {
		duration = minClipSeconds
	}
	if duration > requestedMax {
		duration = requestedMax
	}
	return Window{StartSeconds: start, DurationSeconds: duration}
}

// normalizeText canonicalizes transcribed text for wrapping and rendering.
func normalizeText(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}
