package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipcast/internal/services"
)

func TestTranscribeParsesSegments(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(audioPath, []byte("wav"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	svc := NewService(Config{Model: "base", Language: "en"})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		payload := `{"segments":[{"start":0,"end":2.5,"text":" hello"},{"start":2.5,"end":4,"text":"world "}]}`
		return os.WriteFile(filepath.Join(dir, "clip.json"), []byte(payload), 0o644)
	})

	segments, err := svc.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].End != 2.5 || segments[1].Text != "world " {
		t.Fatalf("unexpected segments: %+v", segments)
	}
}

func TestTranscribeReportsUnavailableOnRunFailure(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exec: \"whisper\": executable file not found in $PATH")
	})

	_, err := svc.Transcribe(context.Background(), "/tmp/clip.wav")
	if !errors.Is(err, services.ErrTranscriptionUnavailable) {
		t.Fatalf("err = %v, want ErrTranscriptionUnavailable", err)
	}
}

func TestTranscribeReportsUnavailableWithoutOutput(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "clip.wav")

	svc := NewService(Config{})
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return nil // ran but wrote nothing
	})

	_, err := svc.Transcribe(context.Background(), audioPath)
	if !errors.Is(err, services.ErrTranscriptionUnavailable) {
		t.Fatalf("err = %v, want ErrTranscriptionUnavailable", err)
	}
}

func TestTranscribeRequiresAudioPath(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.Transcribe(context.Background(), ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestBuildArgs(t *testing.T) {
	svc := NewService(Config{Model: "small", Language: "en"})
	args := svc.buildArgs("/work/clip.wav", "/work")

	joined := strings.Join(args, " ")
	for _, want := range []string{"/work/clip.wav", "--model small", "--output_format json", "--language en"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
}
