package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalFS implements Store on a local directory. Keys map directly onto
// relative file paths under the root.
type LocalFS struct {
	root    string
	baseURL string
}

// NewLocalFS constructs a filesystem-backed store rooted at root. baseURL,
// when non-empty, prefixes public URLs; otherwise file:// URLs are returned.
func NewLocalFS(root, baseURL string) *LocalFS {
	return &LocalFS{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *LocalFS) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.root, cleaned), nil
}

// Get opens the object at key.
func (l *LocalFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("open object %q: %w", key, err)
	}
	return file, nil
}

// Put writes the object at key, creating parent directories as needed.
// The write goes through a temp file and rename so readers never observe
// a partially written object.
func (l *LocalFS) Put(ctx context.Context, key string, reader io.Reader) (int64, error) {
	path, err := l.path(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return 0, fmt.Errorf("create temp object: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("write object %q: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("commit object %q: %w", key, err)
	}
	return n, nil
}

// List returns keys under prefix in lexical order.
func (l *LocalFS) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".put-") {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Copy duplicates src to dst.
func (l *LocalFS) Copy(ctx context.Context, src, dst string) error {
	rc, err := l.Get(ctx, src)
	if err != nil {
		return err
	}
	defer rc.Close()
	if _, err := l.Put(ctx, dst, rc); err != nil {
		return err
	}
	return nil
}

// Delete removes the object at key. Missing keys are ignored.
func (l *LocalFS) Delete(ctx context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// PublicURL resolves a key to a URL.
func (l *LocalFS) PublicURL(key string) string {
	if l.baseURL != "" {
		return l.baseURL + "/" + strings.TrimLeft(key, "/")
	}
	path, err := l.path(key)
	if err != nil {
		return ""
	}
	return "file://" + filepath.ToSlash(path)
}

// PutBytes is a convenience wrapper over Put.
func (l *LocalFS) PutBytes(ctx context.Context, key string, data []byte) error {
	_, err := l.Put(ctx, key, bytes.NewReader(data))
	return err
}

var _ Store = (*LocalFS)(nil)
