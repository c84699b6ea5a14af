package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	minRefineWindow = 3.0
	maxRefineWindow = 8.0
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDownloader(); err != nil {
		return err
	}
	if err := c.validateSilence(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateDownloader() error {
	if strings.TrimSpace(c.Downloader.Binary) == "" {
		return errors.New("downloader.binary must be set")
	}
	if c.Downloader.UpdateCheckDays < 0 {
		return errors.New("downloader.update_check_days must not be negative")
	}
	return nil
}

func (c *Config) validateSilence() error {
	if c.Silence.NoiseDB >= 0 {
		return errors.New("silence.noise_db must be negative (a noise floor in dB)")
	}
	if c.Silence.MinDuration <= 0 {
		return errors.New("silence.min_duration must be positive")
	}
	if c.Silence.RefineWindow < minRefineWindow || c.Silence.RefineWindow > maxRefineWindow {
		return fmt.Errorf("silence.refine_window must be between %g and %g seconds", minRefineWindow, maxRefineWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
