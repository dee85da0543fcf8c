package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransient marks failures worth a job-level retry: encoder
	// crashes, resource limits, flaky I/O.
	ErrTransient = errors.New("transient failure")
	// ErrInputMissing marks an unreadable or absent source object.
	// Retrying cannot heal it, so the worker fails the job immediately.
	ErrInputMissing = errors.New("input missing")
	// ErrTranscriptionUnavailable marks an absent or misconfigured
	// speech-to-text collaborator. Captioning degrades; the job proceeds.
	ErrTranscriptionUnavailable = errors.New("transcription unavailable")
	// ErrCaptionStage marks an encoder failure at a gated text stage
	// (title card or captions). The render executor retries the same
	// run with the reduced graph.
	ErrCaptionStage = errors.New("caption stage unsupported")
	// ErrConfiguration marks unusable configuration; terminal.
	ErrConfiguration = errors.New("configuration error")
	// ErrTimeout marks a collaborator exceeding its wall-clock budget.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error message that includes collaborator context while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsTerminal reports whether a pipeline error should skip the retry budget
// and fail the job outright.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrInputMissing) || errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
