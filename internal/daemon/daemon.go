package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"clipcast/internal/config"
	"clipcast/internal/deps"
	"clipcast/internal/logging"
	"clipcast/internal/posts"
	"clipcast/internal/queue"
	"clipcast/internal/worker"
)

// Daemon coordinates the worker and the API server and enforces
// single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *queue.Store
	posts  *posts.Store
	worker *worker.Worker

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool           `json:"running"`
	LockFilePath string         `json:"lockFilePath"`
	JobsKey      string         `json:"jobsKey"`
	APIAddress   string         `json:"apiAddress,omitempty"`
	Jobs         map[string]int `json:"jobs"`
	Dependencies []deps.Status  `json:"dependencies"`
}

// New constructs a daemon with initialized dependencies. postStore may
// be nil when post tracking is disabled.
func New(cfg *config.Config, store *queue.Store, postStore *posts.Store, w *worker.Worker, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || w == nil {
		return nil, errors.New("daemon requires config, queue store, and worker")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "clipcastd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		store:    store,
		posts:    postStore,
		worker:   w,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock, starts the worker loop, and brings
// up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another clipcast daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.worker.Run(d.ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("worker exited", logging.Error(err))
		}
	}()

	if err := d.api.start(d.ctx); err != nil {
		d.cancel()
		d.wg.Wait()
		_ = d.lock.Unlock()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("clipcast daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("clipcast daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.posts != nil {
		return d.posts.Close()
	}
	return nil
}

// Enqueue adds a render job and, when post tracking is enabled,
// records the post shell the publisher later attaches media to.
func (d *Daemon) Enqueue(ctx context.Context, req queue.EnqueueRequest) (*queue.JobRecord, error) {
	record, err := d.store.Enqueue(ctx, req)
	if err != nil {
		return nil, err
	}
	if d.posts != nil {
		if _, err := d.posts.Upsert(ctx, record.SourceKey, record.Title); err != nil {
			d.logger.Warn("post metadata not recorded",
				logging.String(logging.FieldSourceKey, record.SourceKey),
				logging.Error(err))
		}
	}
	d.logger.Info("job enqueued",
		logging.String(logging.FieldJobID, record.ID),
		logging.String(logging.FieldSourceKey, record.SourceKey))
	return record, nil
}

// ListJobs returns every job, pending first.
func (d *Daemon) ListJobs(ctx context.Context) ([]*queue.JobRecord, error) {
	return d.store.List(ctx)
}

// GetJob returns one job by id.
func (d *Daemon) GetJob(ctx context.Context, id string) (*queue.JobRecord, error) {
	return d.store.GetStatus(ctx, id)
}

// ProcessJob runs one pending job immediately through the worker.
func (d *Daemon) ProcessJob(ctx context.Context, id string) error {
	return d.worker.ProcessNow(ctx, id)
}

// APIAddress reports the bound API address, empty until Start.
func (d *Daemon) APIAddress() string {
	return d.api.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	counts := make(map[string]int, len(queue.AllStatuses()))
	for _, status := range queue.AllStatuses() {
		counts[string(status)] = 0
	}
	records, err := d.store.List(ctx)
	if err != nil {
		return Status{}, err
	}
	for _, record := range records {
		counts[string(record.Status)]++
	}
	return Status{
		Running:      d.running.Load(),
		LockFilePath: d.lockPath,
		JobsKey:      d.cfg.Store.JobsKey,
		APIAddress:   d.api.address(),
		Jobs:         counts,
		Dependencies: deps.Check(d.cfg),
	}, nil
}
