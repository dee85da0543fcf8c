package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	WorkDir  string `toml:"work_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Store contains configuration for job and post persistence.
type Store struct {
	JobsKey       string `toml:"jobs_key"`
	PostsDBName   string `toml:"posts_db_name"`
	PublicBaseURL string `toml:"public_base_url"`
}

// Render contains configuration for the visual composition and encoder.
type Render struct {
	Width           int    `toml:"width"`
	Height          int    `toml:"height"`
	FrameRate       int    `toml:"frame_rate"`
	BackgroundColor string `toml:"background_color"`
	BarColor        string `toml:"bar_color"`
	BrandText       string `toml:"brand_text"`
	FontFile        string `toml:"font_file"`
	MaxLineChars    int    `toml:"max_line_chars"`
	Layout          string `toml:"layout"`
	FFmpegBinary    string `toml:"ffmpeg_binary"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Transcriber contains configuration for the speech-to-text collaborator.
type Transcriber struct {
	Enabled        bool   `toml:"enabled"`
	Binary         string `toml:"binary"`
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Worker contains configuration for the job worker loop.
type Worker struct {
	TickIntervalSeconds int `toml:"tick_interval_seconds"`
	MaxRetries          int `toml:"max_retries"`
	MaxDurationSeconds  int `toml:"max_duration_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipcast.
//
// Configuration sections by subsystem:
//   - Paths: data/work/log directories and the API bind address
//   - Store: job document key and posts database location
//   - Render: canvas geometry, colors, branding, encoder invocation
//   - Transcriber: whisper binary and model selection
//   - Worker: tick interval and retry policy
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Store       Store       `toml:"store"`
	Render      Render      `toml:"render"`
	Transcriber Transcriber `toml:"transcriber"`
	Worker      Worker      `toml:"worker"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipcast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipcast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PostsDBPath returns the location of the posts metadata database.
func (c *Config) PostsDBPath() string {
	return filepath.Join(c.Paths.DataDir, c.Store.PostsDBName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
