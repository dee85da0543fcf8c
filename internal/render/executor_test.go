package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipcast/internal/captions"
	"clipcast/internal/filtergraph"
	"clipcast/internal/services"
)

func testRequest(t *testing.T) Request {
	t.Helper()
	dir := t.TempDir()
	audio := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(audio, []byte("riff"), 0o644); err != nil {
		t.Fatal(err)
	}
	return Request{
		AudioPath:  audio,
		OutputPath: filepath.Join(dir, "out.mp4"),
		Graph: filtergraph.Options{
			Width:           1080,
			Height:          1920,
			FrameRate:       30,
			DurationSeconds: 30,
			BackgroundColor: "#052962",
			BarColor:        "#ffe500",
			BrandText:       "clipcast",
			Title:           "test",
			Lines:           []captions.Line{{Start: 0, End: 4, Text: "hello"}},
			IncludeTitle:    true,
			IncludeCaptions: true,
		},
	}
}

func TestRenderBuildsCaptionedInvocation(t *testing.T) {
	req := testRequest(t)
	exec := NewExecutor("ffmpeg", time.Minute, nil)

	var captured []string
	exec.WithCommandRunner(func(_ context.Context, name string, args ...string) (string, error) {
		if name != "ffmpeg" {
			t.Fatalf("binary = %q", name)
		}
		captured = args
		return "", nil
	})

	result, err := exec.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !result.CaptionsBurned {
		t.Fatal("expected captions burned on clean run")
	}
	joined := strings.Join(captured, " ")
	if !strings.Contains(joined, "-filter_complex") {
		t.Fatalf("missing filter_complex in %q", joined)
	}
	if !strings.Contains(joined, "drawtext=text='hello'") {
		t.Fatalf("caption missing from graph: %q", joined)
	}
	if !strings.Contains(joined, "-ss 0 -t 30") {
		t.Fatalf("clip window missing: %q", joined)
	}
	if !strings.Contains(joined, "-c:v libx264") {
		t.Fatalf("encoder missing: %q", joined)
	}
	if captured[len(captured)-1] != req.OutputPath {
		t.Fatalf("output path = %q", captured[len(captured)-1])
	}
}

func TestRenderFallsBackToReducedGraphOnCaptionFailure(t *testing.T) {
	req := testRequest(t)
	exec := NewExecutor("", time.Minute, nil)

	var runs []string
	exec.WithCommandRunner(func(_ context.Context, _ string, args ...string) (string, error) {
		graph := graphArg(t, args)
		runs = append(runs, graph)
		if strings.Contains(graph, "enable=") {
			return "[Parsed_drawtext_5] Cannot find a valid font", errors.New("exit status 1")
		}
		return "", nil
	})

	result, err := exec.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.CaptionsBurned {
		t.Fatal("fallback result must report captions dropped")
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want captioned attempt plus fallback", len(runs))
	}
	if strings.Contains(runs[1], "enable=") || strings.Contains(runs[1], "text='test'") {
		t.Fatalf("fallback graph still captioned: %q", runs[1])
	}
	if !strings.Contains(runs[1], "text='clipcast'") {
		t.Fatalf("fallback graph lost the masthead: %q", runs[1])
	}
}

func TestRenderFallsBackWhenOnlyTitleCardIsGated(t *testing.T) {
	req := testRequest(t)
	req.Graph.Lines = nil
	req.Graph.IncludeCaptions = false
	exec := NewExecutor("", time.Minute, nil)

	var runs []string
	exec.WithCommandRunner(func(_ context.Context, _ string, args ...string) (string, error) {
		graph := graphArg(t, args)
		runs = append(runs, graph)
		if strings.Contains(graph, "text='test'") {
			return "[Parsed_drawtext_5] Cannot find a valid font", errors.New("exit status 1")
		}
		return "", nil
	})

	result, err := exec.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want title attempt plus fallback", len(runs))
	}
	if strings.Contains(runs[1], "text='test'") {
		t.Fatalf("fallback graph still carries the title: %q", runs[1])
	}
	if result.CaptionsBurned {
		t.Fatal("title-only run must not report burned captions")
	}
}

func TestRenderClassifiesTextStageFailures(t *testing.T) {
	req := testRequest(t)
	exec := NewExecutor("", time.Minute, nil)

	exec.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, error) {
		return "[Parsed_drawtext_5] Cannot find a valid font", errors.New("exit status 1")
	})

	// Both the gated run and the reduced fallback hit the font error;
	// only the gated run is tagged as a caption stage failure.
	_, err := exec.Render(context.Background(), req)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, services.ErrCaptionStage) {
		t.Fatalf("reduced-graph failure tagged as caption stage: %v", err)
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("error = %v, want transient", err)
	}
}

func TestRenderDoesNotFallBackOnEncodeFailure(t *testing.T) {
	req := testRequest(t)
	exec := NewExecutor("", time.Minute, nil)

	calls := 0
	exec.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, error) {
		calls++
		return "Error while opening encoder for output stream", errors.New("exit status 1")
	})

	_, err := exec.Render(context.Background(), req)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("error = %v, want transient", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, fallback must not trigger on encode failures", calls)
	}
}

func TestRenderMissingAudioIsTerminal(t *testing.T) {
	req := testRequest(t)
	req.AudioPath = filepath.Join(t.TempDir(), "gone.wav")
	exec := NewExecutor("", time.Minute, nil)
	exec.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, error) {
		t.Fatal("ffmpeg must not run without input audio")
		return "", nil
	})

	_, err := exec.Render(context.Background(), req)
	if !errors.Is(err, services.ErrInputMissing) {
		t.Fatalf("error = %v, want input missing", err)
	}
	if !services.IsTerminal(err) {
		t.Fatal("missing input must be terminal")
	}
}

func TestRenderTimeout(t *testing.T) {
	req := testRequest(t)
	exec := NewExecutor("", 10*time.Millisecond, nil)
	exec.WithCommandRunner(func(ctx context.Context, _ string, _ ...string) (string, error) {
		<-ctx.Done()
		return "drawtext", ctx.Err()
	})

	_, err := exec.Render(context.Background(), req)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("error = %v, want timeout", err)
	}
}

func graphArg(t *testing.T, args []string) string {
	t.Helper()
	for i, arg := range args {
		if arg == "-filter_complex" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatal("no -filter_complex argument")
	return ""
}
