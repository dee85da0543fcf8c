package config

import (
	"errors"
	"fmt"
	"regexp"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateWorker(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New("render.width and render.height must be positive")
	}
	if c.Render.FrameRate <= 0 {
		return errors.New("render.frame_rate must be positive")
	}
	if c.Render.MaxLineChars < 8 {
		return errors.New("render.max_line_chars must be at least 8")
	}
	if !hexColorPattern.MatchString(c.Render.BackgroundColor) {
		return fmt.Errorf("render.background_color %q must be a #rrggbb hex color", c.Render.BackgroundColor)
	}
	if !hexColorPattern.MatchString(c.Render.BarColor) {
		return fmt.Errorf("render.bar_color %q must be a #rrggbb hex color", c.Render.BarColor)
	}
	switch c.Render.Layout {
	case LayoutVertical, LayoutSquare:
	default:
		return fmt.Errorf("render.layout %q must be %q or %q", c.Render.Layout, LayoutVertical, LayoutSquare)
	}
	if c.Render.TimeoutSeconds <= 0 {
		return errors.New("render.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateWorker() error {
	if c.Worker.TickIntervalSeconds <= 0 {
		return errors.New("worker.tick_interval_seconds must be positive")
	}
	if c.Worker.MaxRetries <= 0 {
		return errors.New("worker.max_retries must be positive")
	}
	if c.Worker.MaxDurationSeconds < 5 {
		return errors.New("worker.max_duration_seconds must be at least 5")
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	if !c.Transcriber.Enabled {
		return nil
	}
	if c.Transcriber.TimeoutSeconds <= 0 {
		return errors.New("transcriber.timeout_seconds must be positive")
	}
	return nil
}
