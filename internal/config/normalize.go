package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	c.normalizeRender()
	c.normalizeTranscriber()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeStore() {
	if strings.TrimSpace(c.Store.JobsKey) == "" {
		c.Store.JobsKey = defaultJobsKey
	}
	if strings.TrimSpace(c.Store.PostsDBName) == "" {
		c.Store.PostsDBName = defaultPostsDBName
	}
	c.Store.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Store.PublicBaseURL), "/")
}

func (c *Config) normalizeRender() {
	c.Render.Layout = strings.ToLower(strings.TrimSpace(c.Render.Layout))
	if c.Render.Layout == "" {
		c.Render.Layout = defaultLayout
	}
	if strings.TrimSpace(c.Render.FFmpegBinary) == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	c.Render.BackgroundColor = strings.ToLower(strings.TrimSpace(c.Render.BackgroundColor))
	c.Render.BarColor = strings.ToLower(strings.TrimSpace(c.Render.BarColor))
}

func (c *Config) normalizeTranscriber() {
	if strings.TrimSpace(c.Transcriber.Binary) == "" {
		c.Transcriber.Binary = defaultWhisperBinary
	}
	if strings.TrimSpace(c.Transcriber.Model) == "" {
		c.Transcriber.Model = defaultWhisperModel
	}
	c.Transcriber.Language = strings.ToLower(strings.TrimSpace(c.Transcriber.Language))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
