package captions

import (
	"context"
	"log/slog"
	"sort"

	"clipcast/internal/logging"
)

// Stub window used when transcription is unavailable: captions are lost
// but the job still renders a clip of this length.
const stubWindowSeconds = 30

// Segmenter produces ordered caption segments for a local audio file,
// degrading to a stub when the transcriber cannot serve.
type Segmenter struct {
	transcriber Transcriber
	logger      *slog.Logger
}

// NewSegmenter constructs a segmenter. transcriber may be nil, in which
// case every request degrades to the stub segment.
func NewSegmenter(transcriber Transcriber, logger *slog.Logger) *Segmenter {
	return &Segmenter{
		transcriber: transcriber,
		logger:      logging.WithComponent(logger, "segmenter"),
	}
}

// Segments transcribes audioPath into ordered segments. Transcription
// failure of any kind degrades caption quality instead of aborting the
// render: the result is one silent stub segment spanning the default
// window, and degraded is true.
func (s *Segmenter) Segments(ctx context.Context, audioPath string) (segments []Segment, degraded bool) {
	if s.transcriber == nil {
		s.logger.Warn("no transcriber configured, rendering without captions")
		return stubSegments(), true
	}

	result, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		s.logger.Warn("transcription failed, rendering without captions", logging.Error(err))
		return stubSegments(), true
	}
	if len(result) == 0 {
		s.logger.Warn("transcription produced no segments, rendering without captions")
		return stubSegments(), true
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Start < result[j].Start })
	return result, false
}

func stubSegments() []Segment {
	return []Segment{{Start: 0, End: stubWindowSeconds, Text: ""}}
}
