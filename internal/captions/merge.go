package captions

import (
	"strings"
	"unicode/utf8"
)

// MergeSegments greedily accumulates segment text into display lines.
// Segments wider than maxLineChars are first wrapped at word boundaries,
// interpolating each wrapped piece's start across the segment window by
// its share of the text. When appending the next piece would exceed
// maxLineChars, the buffer flushes as a line spanning [bufferStart,
// piece start); the trailing buffer flushes with the last segment's end.
// Words are never split, so only a single word longer than maxLineChars
// produces an oversized line. Budgets count runes, not bytes. Re-merging
// the output with the same budget is a no-op.
func MergeSegments(segments []Segment, maxLineChars int) []Line {
	var lines []Line
	var (
		buffer      string
		bufferStart float64
		buffering   bool
	)

	flush := func(end float64) {
		if !buffering {
			return
		}
		lines = append(lines, Line{Start: bufferStart, End: end, Text: buffer})
		buffering = false
		buffer = ""
	}

	var lastEnd float64
	for _, segment := range segments {
		text := normalizeText(segment.Text)
		lastEnd = segment.End
		if text == "" {
			continue
		}
		for _, piece := range wrapSegment(segment, text, maxLineChars) {
			if !buffering {
				buffer = piece.text
				bufferStart = piece.start
				buffering = true
				continue
			}
			if utf8.RuneCountInString(buffer)+1+utf8.RuneCountInString(piece.text) > maxLineChars {
				flush(piece.start)
				buffer = piece.text
				bufferStart = piece.start
				buffering = true
				continue
			}
			buffer += " " + piece.text
		}
	}
	flush(lastEnd)

	return lines
}

// piece is one word-wrapped slice of a segment together with the
// interpolated start of its share of the segment window.
type piece struct {
	start float64
	text  string
}

// wrapSegment splits segment text that overflows the budget at word
// boundaries. A word wider than the budget stands alone as one piece.
func wrapSegment(segment Segment, text string, maxLineChars int) []piece {
	if utf8.RuneCountInString(text) <= maxLineChars {
		return []piece{{start: segment.Start, text: text}}
	}

	var chunks []string
	var current string
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) > maxLineChars:
			chunks = append(chunks, current)
			current = word
		default:
			current += " " + word
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	total := 0
	for _, chunk := range chunks {
		total += utf8.RuneCountInString(chunk)
	}

	span := segment.End - segment.Start
	pieces := make([]piece, 0, len(chunks))
	elapsed := 0
	for _, chunk := range chunks {
		start := segment.Start
		if total > 0 {
			start += span * float64(elapsed) / float64(total)
		}
		pieces = append(pieces, piece{start: start, text: chunk})
		elapsed += utf8.RuneCountInString(chunk)
	}
	return pieces
}

// LinesToSegments converts lines back to segments, used when re-merging.
func LinesToSegments(lines []Line) []Segment {
	segments := make([]Segment, 0, len(lines))
	for _, line := range lines {
		segments = append(segments, Segment{Start: line.Start, End: line.End, Text: line.Text})
	}
	return segments
}
