package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("config file should not exist")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Render.Width != defaultWidth || cfg.Worker.MaxRetries != defaultMaxRetries {
		t.Fatal("defaults not applied")
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipcast.toml")
	content := `
[render]
layout = "square"
max_line_chars = 36

[worker]
tick_interval_seconds = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("config file should exist")
	}
	if cfg.Render.Layout != LayoutSquare {
		t.Fatalf("layout = %q, want square", cfg.Render.Layout)
	}
	if cfg.Render.MaxLineChars != 36 {
		t.Fatalf("max_line_chars = %d, want 36", cfg.Render.MaxLineChars)
	}
	if cfg.Worker.TickIntervalSeconds != 2 {
		t.Fatalf("tick_interval_seconds = %d, want 2", cfg.Worker.TickIntervalSeconds)
	}
	// Untouched sections keep defaults.
	if cfg.Render.BackgroundColor != defaultBackgroundColor {
		t.Fatalf("background_color = %q, want default", cfg.Render.BackgroundColor)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad layout", func(c *Config) { c.Render.Layout = "wide" }, "render.layout"},
		{"bad color", func(c *Config) { c.Render.BackgroundColor = "blue" }, "background_color"},
		{"zero frame rate", func(c *Config) { c.Render.FrameRate = 0 }, "frame_rate"},
		{"tiny line chars", func(c *Config) { c.Render.MaxLineChars = 4 }, "max_line_chars"},
		{"zero retries", func(c *Config) { c.Worker.MaxRetries = 0 }, "max_retries"},
		{"short clip cap", func(c *Config) { c.Worker.MaxDurationSeconds = 2 }, "max_duration_seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config should exist")
	}
	if cfg.Render.Layout != LayoutVertical {
		t.Fatalf("sample layout = %q", cfg.Render.Layout)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := expandPath("~/captures")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "captures") {
		t.Fatalf("expandPath = %q", got)
	}
}
