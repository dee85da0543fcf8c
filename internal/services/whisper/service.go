package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"clipcast/internal/captions"
	"clipcast/internal/services"
)

// Service provides whisper transcription.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Transcribe runs whisper against audioPath and parses the JSON output it
// writes alongside the input. Binary absence and startup failures are
// tagged services.ErrTranscriptionUnavailable.
func (s *Service) Transcribe(ctx context.Context, audioPath string) ([]captions.Segment, error) {
	if audioPath == "" {
		return nil, services.Wrap(services.ErrConfiguration, "whisper", "transcribe", "audio path required", nil)
	}

	if s.commandRunner == nil {
		if _, err := exec.LookPath(s.cfg.Binary); err != nil {
			return nil, services.Wrap(services.ErrTranscriptionUnavailable, "whisper", "lookup", s.cfg.Binary, err)
		}
	}

	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	outputDir := filepath.Dir(audioPath)
	args := s.buildArgs(audioPath, outputDir)
	if err := s.run(runCtx, s.cfg.Binary, args...); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "whisper", "run", "transcription timed out", err)
		}
		return nil, services.Wrap(services.ErrTranscriptionUnavailable, "whisper", "run", "", err)
	}

	jsonPath := outputJSONPath(audioPath, outputDir)
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrTranscriptionUnavailable, "whisper", "output", "no transcript produced", err)
		}
		return nil, services.Wrap(services.ErrTransient, "whisper", "output", "", err)
	}
	return segments, nil
}

func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := []string{
		audioPath,
		"--model", s.cfg.Model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--fp16", "False",
	}
	if s.cfg.Language != "" {
		args = append(args, "--language", s.cfg.Language)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func outputJSONPath(audioPath, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(outputDir, base+".json")
}

// whisperPayload is the JSON structure whisper writes.
type whisperPayload struct {
	Segments []captions.Segment `json:"segments"`
}

// LoadSegments loads segments from a whisper JSON file.
func LoadSegments(jsonPath string) ([]captions.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	return payload.Segments, nil
}

var _ captions.Transcriber = (*Service)(nil)
