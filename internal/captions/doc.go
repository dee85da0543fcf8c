// Package captions turns raw audio into ordered, time-coded caption lines.
//
// Transcription is delegated to a speech-to-text collaborator; when that
// collaborator is unavailable the segmenter degrades to a silent stub
// segment instead of failing the job. Merging wraps segment text into
// display lines bounded by a character budget, never splitting inside a
// segment's text.
package captions
