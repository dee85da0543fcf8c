package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"clipcast/internal/filtergraph"
	"clipcast/internal/logging"
	"clipcast/internal/services"
)

// DefaultBinary is the ffmpeg executable resolved from PATH when the
// configuration does not pin one.
const DefaultBinary = "ffmpeg"

// captionFailureSignatures mark stderr output pointing at the text
// stages rather than the encode itself. A run whose graph carries
// gated text stages fails with services.ErrCaptionStage when any of
// these appear, which triggers the in-run captionless fallback.
var captionFailureSignatures = []string{
	"drawtext",
	"fontconfig",
	"fontfile",
	"glyph",
}

// Request describes one render: where the clip audio lives, where the
// artifact goes, and the graph options the executor composes from.
type Request struct {
	AudioPath  string
	OutputPath string
	Graph      filtergraph.Options
}

// Result reports what the executor produced.
type Result struct {
	OutputPath     string
	CaptionsBurned bool
}

// Executor shells out to ffmpeg.
type Executor struct {
	binary        string
	timeout       time.Duration
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) (string, error)
}

// NewExecutor creates an executor for the given binary. An empty
// binary falls back to DefaultBinary, a zero timeout disables the
// per-run deadline.
func NewExecutor(binary string, timeout time.Duration, logger *slog.Logger) *Executor {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		binary:  binary,
		timeout: timeout,
		logger:  logging.WithComponent(logger, "render"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Executor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	e.commandRunner = runner
}

// Render executes the composed graph and, when ffmpeg rejects a gated
// text stage, retries once with the reduced graph (no title card, no
// captions) in the same call. The result records whether captions
// survived.
func (e *Executor) Render(ctx context.Context, req Request) (Result, error) {
	if req.AudioPath == "" {
		return Result{}, services.Wrap(services.ErrInputMissing, "render", "render", "audio path required", nil)
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return Result{}, services.Wrap(services.ErrInputMissing, "render", "render", "clip audio not found", err)
	}
	if e.commandRunner == nil {
		if _, err := exec.LookPath(e.binary); err != nil {
			return Result{}, services.Wrap(services.ErrConfiguration, "render", "render", fmt.Sprintf("%s not found on PATH", e.binary), err)
		}
	}

	err := e.runGraph(ctx, req, req.Graph)
	if err == nil {
		return Result{OutputPath: req.OutputPath, CaptionsBurned: req.Graph.IncludeCaptions}, nil
	}
	if !errors.Is(err, services.ErrCaptionStage) {
		return Result{}, err
	}

	e.logger.Warn("text stage failed, retrying with reduced graph",
		logging.String("output", req.OutputPath),
		logging.Error(err))

	reduced := req.Graph
	reduced.IncludeTitle = false
	reduced.IncludeCaptions = false
	if err := e.runGraph(ctx, req, reduced); err != nil {
		return Result{}, err
	}
	return Result{OutputPath: req.OutputPath, CaptionsBurned: false}, nil
}

func (e *Executor) runGraph(ctx context.Context, req Request, opts filtergraph.Options) error {
	graph, output, err := filtergraph.Serialize(filtergraph.Build(opts))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "render", "compose graph", "invalid filter graph", err)
	}

	args := buildArgs(req, opts, graph, output)

	runCtx := ctx
	var cancel context.CancelFunc
	if e.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.logger.Debug("running ffmpeg",
		logging.String("output", req.OutputPath),
		logging.Bool("captions", opts.IncludeCaptions))

	stderr, err := e.run(runCtx, e.binary, args...)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "render", "ffmpeg", "render timed out", err)
		}
		if gatedTextStages(opts) && captionFailure(stderr) {
			return services.Wrap(services.ErrCaptionStage, "render", "ffmpeg", "text stage rejected", err)
		}
		return services.Wrap(services.ErrTransient, "render", "ffmpeg", "render failed", err)
	}
	return nil
}

// gatedTextStages reports whether the options produce a title card or
// caption stages. Only those runs are eligible for the reduced-graph
// fallback; a masthead drawtext failure on the reduced graph is final.
func gatedTextStages(opts filtergraph.Options) bool {
	return opts.IncludeCaptions || (opts.IncludeTitle && opts.Title != "")
}

func (e *Executor) run(ctx context.Context, name string, args ...string) (string, error) {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// buildArgs assembles the full ffmpeg invocation. The clip window is
// applied on the input side so the visualization and the encode both
// see only the extracted span.
func buildArgs(req Request, opts filtergraph.Options, graph, output string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-ss", strconv.FormatFloat(opts.ClipStartSeconds, 'f', -1, 64),
		"-t", strconv.Itoa(opts.DurationSeconds),
		"-i", req.AudioPath,
		"-filter_complex", graph,
		"-map", "[" + output + "]",
		"-map", "0:a",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(opts.FrameRate),
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		req.OutputPath,
	}
}

func captionFailure(stderr string) bool {
	lowered := strings.ToLower(stderr)
	for _, signature := range captionFailureSignatures {
		if strings.Contains(lowered, signature) {
			return true
		}
	}
	return false
}
