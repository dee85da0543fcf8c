package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"clipcast/internal/captions"
	"clipcast/internal/config"
	"clipcast/internal/daemon"
	"clipcast/internal/logging"
	"clipcast/internal/objectstore"
	"clipcast/internal/posts"
	"clipcast/internal/publish"
	"clipcast/internal/queue"
	"clipcast/internal/render"
	"clipcast/internal/services/whisper"
	"clipcast/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "clipcastd.log")},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	objects := objectstore.NewLocalFS(filepath.Join(cfg.Paths.DataDir, "objects"), cfg.Store.PublicBaseURL)
	store := queue.NewStore(objects, cfg.Store.JobsKey, cfg.Worker.MaxDurationSeconds)

	postStore, err := posts.Open(cfg)
	if err != nil {
		logger.Error("open posts store", logging.Error(err))
		return
	}

	var transcriber captions.Transcriber
	if cfg.Transcriber.Enabled {
		transcriber = whisper.NewService(whisper.Config{
			Binary:   cfg.Transcriber.Binary,
			Model:    cfg.Transcriber.Model,
			Language: cfg.Transcriber.Language,
			Timeout:  time.Duration(cfg.Transcriber.TimeoutSeconds) * time.Second,
		})
	}
	segmenter := captions.NewSegmenter(transcriber, logger)

	renderer := render.NewExecutor(
		cfg.Render.FFmpegBinary,
		time.Duration(cfg.Render.TimeoutSeconds)*time.Second,
		logger,
	)
	publisher := publish.New(objects, postStore, cfg.Render.Layout, logger)
	w := worker.New(store, objects, segmenter, renderer, publisher, cfg, logger)

	d, err := daemon.New(cfg, store, postStore, w, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("clipcastd shutting down")
}
