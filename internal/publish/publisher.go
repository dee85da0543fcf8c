// Package publish moves rendered artifacts into the object store under
// deterministic keys and records the publication on the source's post.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"regexp"
	"strings"

	"clipcast/internal/config"
	"clipcast/internal/logging"
	"clipcast/internal/objectstore"
	"clipcast/internal/posts"
	"clipcast/internal/services"
)

// epochPrefix matches the upload timestamp many ingest paths prepend
// to file names, e.g. "1700000000-test.mp3".
var epochPrefix = regexp.MustCompile(`^\d+-`)

// OutputKey derives the artifact key from the source audio key. The
// key is deterministic so re-running a job overwrites its previous
// artifact instead of accumulating copies.
func OutputKey(sourceKey, layout string) string {
	stem := path.Base(sourceKey)
	if ext := path.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	stem = epochPrefix.ReplaceAllString(stem, "")
	if layout == config.LayoutSquare {
		return "video/" + stem + ".mp4"
	}
	return "shorts/" + stem + "-9x16.mp4"
}

// Publisher uploads rendered files and updates post metadata.
type Publisher struct {
	objects objectstore.Store
	posts   *posts.Store
	layout  string
	logger  *slog.Logger
}

// New creates a publisher. posts may be nil when metadata tracking is
// disabled.
func New(objects objectstore.Store, postStore *posts.Store, layout string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Publisher{
		objects: objects,
		posts:   postStore,
		layout:  layout,
		logger:  logging.WithComponent(logger, "publish"),
	}
}

// Result reports where the artifact landed.
type Result struct {
	OutputKey string
	PublicURL string
}

// Publish uploads the rendered file under the key derived from the
// source and attaches the media to the source's post when one exists.
func (p *Publisher) Publish(ctx context.Context, sourceKey, renderedPath string) (Result, error) {
	file, err := os.Open(renderedPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrInputMissing, "publish", "open artifact", "rendered file not found", err)
	}
	defer file.Close()

	key := OutputKey(sourceKey, p.layout)
	size, err := p.objects.Put(ctx, key, file)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "publish", "upload", fmt.Sprintf("store %s", key), err)
	}

	result := Result{OutputKey: key, PublicURL: p.objects.PublicURL(key)}

	if p.posts != nil {
		if err := p.posts.AttachMedia(ctx, sourceKey, key, result.PublicURL); err != nil && !errors.Is(err, posts.ErrNotFound) {
			return Result{}, services.Wrap(services.ErrTransient, "publish", "record post", "update post metadata", err)
		}
	}

	p.logger.Info("artifact published",
		logging.String(logging.FieldSourceKey, sourceKey),
		logging.String(logging.FieldOutputKey, key),
		logging.Int64("bytes", size))
	return result, nil
}
