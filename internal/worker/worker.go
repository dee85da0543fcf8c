package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"
	"time"

	"clipcast/internal/captions"
	"clipcast/internal/config"
	"clipcast/internal/filtergraph"
	"clipcast/internal/logging"
	"clipcast/internal/objectstore"
	"clipcast/internal/publish"
	"clipcast/internal/queue"
	"clipcast/internal/render"
	"clipcast/internal/services"
)

// Renderer executes a composed graph against clip audio.
type Renderer interface {
	Render(ctx context.Context, req render.Request) (render.Result, error)
}

// Publisher stores a rendered artifact and reports where it landed.
type Publisher interface {
	Publish(ctx context.Context, sourceKey, renderedPath string) (publish.Result, error)
}

// Worker polls the queue and processes one job per tick.
type Worker struct {
	store     *queue.Store
	objects   objectstore.Store
	segmenter *captions.Segmenter
	renderer  Renderer
	publisher Publisher
	cfg       *config.Config
	logger    *slog.Logger

	inFlight atomic.Bool
	now      func() time.Time
}

// New wires a worker over its collaborators.
func New(store *queue.Store, objects objectstore.Store, segmenter *captions.Segmenter, renderer Renderer, publisher Publisher, cfg *config.Config, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Worker{
		store:     store,
		objects:   objects,
		segmenter: segmenter,
		renderer:  renderer,
		publisher: publisher,
		cfg:       cfg,
		logger:    logging.WithComponent(logger, "worker"),
		now:       time.Now,
	}
}

// WithClock overrides the worker clock (for tests).
func (w *Worker) WithClock(now func() time.Time) *Worker {
	w.now = now
	return w
}

// Run ticks until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	interval := time.Duration(w.cfg.Worker.TickIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker started", logging.Duration("tick", interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				w.logger.Error("tick failed", logging.Error(err))
			}
		}
	}
}

// Tick claims and processes at most one eligible job. It returns nil
// when the queue is idle or another tick is already in flight.
func (w *Worker) Tick(ctx context.Context) error {
	if !w.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer w.inFlight.Store(false)

	doc, err := w.store.LoadState(ctx)
	if err != nil {
		return err
	}
	record := doc.NextEligible(w.now())
	if record == nil {
		return nil
	}
	return w.claimAndProcess(ctx, doc, record)
}

// ProcessNow runs one specific pending job immediately, bypassing its
// backoff schedule but not the single-job guard.
func (w *Worker) ProcessNow(ctx context.Context, id string) error {
	if !w.inFlight.CompareAndSwap(false, true) {
		return fmt.Errorf("another job is already processing")
	}
	defer w.inFlight.Store(false)

	doc, err := w.store.LoadState(ctx)
	if err != nil {
		return err
	}
	record, ok := doc.Items[id]
	if !ok {
		return fmt.Errorf("%w: %s", queue.ErrNotFound, id)
	}
	if record.Status.IsTerminal() || record.Status == queue.StatusProcessing {
		return fmt.Errorf("job %s is %s and cannot be processed", id, record.Status)
	}
	return w.claimAndProcess(ctx, doc, record)
}

func (w *Worker) claimAndProcess(ctx context.Context, doc *queue.Document, record *queue.JobRecord) error {
	claimed := w.now()
	doc.MarkProcessing(record, claimed)
	if err := w.store.SaveState(ctx, doc); err != nil {
		if errors.Is(err, queue.ErrConflict) {
			w.logger.Warn("claim lost to a concurrent writer",
				logging.String(logging.FieldJobID, record.ID))
			return nil
		}
		return err
	}

	w.logger.Info("job started",
		logging.String(logging.FieldJobID, record.ID),
		logging.String(logging.FieldSourceKey, record.SourceKey),
		logging.Int(logging.FieldAttempt, record.Attempts+1))

	outputKey, err := w.process(ctx, record)
	if err == nil {
		w.logger.Info("job done",
			logging.String(logging.FieldJobID, record.ID),
			logging.String(logging.FieldOutputKey, outputKey))
		return w.persistOutcome(ctx, doc, record.ID, func(d *queue.Document, r *queue.JobRecord) {
			d.MarkDone(r, outputKey, w.now())
		})
	}

	terminal := services.IsTerminal(err)
	w.logger.Error("job failed",
		logging.String(logging.FieldJobID, record.ID),
		logging.Bool("terminal", terminal),
		logging.Error(err))
	failure := err
	return w.persistOutcome(ctx, doc, record.ID, func(d *queue.Document, r *queue.JobRecord) {
		d.MarkFailure(r, failure, terminal, w.cfg.Worker.MaxRetries, w.now())
	})
}

// persistOutcome applies a transition and saves, reloading and
// reapplying when a concurrent writer advanced the document between
// the claim and the outcome.
func (w *Worker) persistOutcome(ctx context.Context, doc *queue.Document, id string, apply func(*queue.Document, *queue.JobRecord)) error {
	var saveErr error
	for attempt := 0; attempt < 3; attempt++ {
		record, ok := doc.Items[id]
		if !ok {
			return fmt.Errorf("%w: %s vanished while processing", queue.ErrNotFound, id)
		}
		apply(doc, record)
		saveErr = w.store.SaveState(ctx, doc)
		if saveErr == nil {
			return nil
		}
		if !errors.Is(saveErr, queue.ErrConflict) {
			return saveErr
		}
		doc, saveErr = w.store.LoadState(ctx)
		if saveErr != nil {
			return saveErr
		}
	}
	return saveErr
}

// process runs the pipeline for one claimed record inside a scoped
// workspace and returns the published output key.
func (w *Worker) process(ctx context.Context, record *queue.JobRecord) (string, error) {
	workspace, err := os.MkdirTemp(w.cfg.Paths.WorkDir, "render-*")
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "worker", "workspace", "create workspace", err)
	}
	defer os.RemoveAll(workspace)

	audioPath, err := w.fetchSource(ctx, record.SourceKey, workspace)
	if err != nil {
		return "", err
	}

	segments, degraded := w.segmenter.Segments(ctx, audioPath)
	lines := captions.MergeSegments(segments, w.cfg.Render.MaxLineChars)
	window := captions.ClipWindow(segments, record.MaxDurationSeconds)

	outputPath := filepath.Join(workspace, "out.mp4")
	result, err := w.renderer.Render(ctx, render.Request{
		AudioPath:  audioPath,
		OutputPath: outputPath,
		Graph: filtergraph.Options{
			Width:            w.cfg.Render.Width,
			Height:           w.cfg.Render.Height,
			FrameRate:        w.cfg.Render.FrameRate,
			DurationSeconds:  window.DurationSeconds,
			ClipStartSeconds: float64(window.StartSeconds),
			BackgroundColor:  w.cfg.Render.BackgroundColor,
			BarColor:         w.cfg.Render.BarColor,
			BrandText:        w.cfg.Render.BrandText,
			Title:            record.Title,
			FontFile:         w.cfg.Render.FontFile,
			Lines:            lines,
			IncludeTitle:     true,
			IncludeCaptions:  !degraded && len(lines) > 0,
		},
	})
	if err != nil {
		return "", err
	}
	if !result.CaptionsBurned {
		w.logger.Warn("artifact rendered without captions",
			logging.String(logging.FieldJobID, record.ID))
	}

	published, err := w.publisher.Publish(ctx, record.SourceKey, result.OutputPath)
	if err != nil {
		return "", err
	}
	return published.OutputKey, nil
}

// fetchSource copies the job's audio object into the workspace.
func (w *Worker) fetchSource(ctx context.Context, sourceKey, workspace string) (string, error) {
	rc, err := w.objects.Get(ctx, sourceKey)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return "", services.Wrap(services.ErrInputMissing, "worker", "fetch source", fmt.Sprintf("%s does not exist", sourceKey), err)
		}
		return "", services.Wrap(services.ErrTransient, "worker", "fetch source", fmt.Sprintf("read %s", sourceKey), err)
	}
	defer rc.Close()

	ext := path.Ext(sourceKey)
	if ext == "" {
		ext = ".bin"
	}
	audioPath := filepath.Join(workspace, "source"+ext)
	file, err := os.Create(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "worker", "fetch source", "create local copy", err)
	}
	defer file.Close()
	if _, err := io.Copy(file, rc); err != nil {
		return "", services.Wrap(services.ErrTransient, "worker", "fetch source", "copy source audio", err)
	}
	return audioPath, nil
}
