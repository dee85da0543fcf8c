package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"clipcast/internal/config"
)

// ErrNotFound reports that no post exists for the requested key.
var ErrNotFound = errors.New("post not found")

// Post is publication metadata for a single rendered clip.
type Post struct {
	ID        int64
	SourceKey string
	Title     string
	MediaKey  string
	PublicURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store manages post persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the posts database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.PostsDBPath())
}

// OpenPath opens the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert records a post for a source key, updating the title when the
// source is enqueued again.
func (s *Store) Upsert(ctx context.Context, sourceKey, title string) (*Post, error) {
	if sourceKey == "" {
		return nil, fmt.Errorf("upsert post: source key required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO posts (source_key, title, created_at, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(source_key) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		sourceKey,
		title,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert post: %w", err)
	}
	return s.GetBySource(ctx, sourceKey)
}

// AttachMedia records where the rendered artifact landed for a source.
func (s *Store) AttachMedia(ctx context.Context, sourceKey, mediaKey, publicURL string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE posts SET media_key = ?, public_url = ?, updated_at = ? WHERE source_key = ?`,
		mediaKey,
		publicURL,
		now,
		sourceKey,
	)
	if err != nil {
		return fmt.Errorf("attach media: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("attach media: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBySource fetches the post recorded for a source key.
func (s *Store) GetBySource(ctx context.Context, sourceKey string) (*Post, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, source_key, title, media_key, public_url, created_at, updated_at
         FROM posts WHERE source_key = ?`,
		sourceKey,
	)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return post, err
}

// List returns all posts, most recently updated first.
func (s *Store) List(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, source_key, title, media_key, public_url, created_at, updated_at
         FROM posts ORDER BY updated_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var result []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var post Post
	var createdAt, updatedAt string
	if err := row.Scan(&post.ID, &post.SourceKey, &post.Title, &post.MediaKey, &post.PublicURL, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	var err error
	if post.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if post.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &post, nil
}
