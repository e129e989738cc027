package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCapture()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PIDFile) == "" {
		c.Paths.PIDFile = defaultPIDFile
	}
	if c.Paths.PIDFile, err = expandPath(c.Paths.PIDFile); err != nil {
		return fmt.Errorf("paths.pid_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile
	}
	if c.Paths.LockFile, err = expandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.FrameSource) == "" {
		c.Paths.FrameSource = defaultFrameSource
	}
	if c.Paths.FrameSource, err = expandPath(c.Paths.FrameSource); err != nil {
		return fmt.Errorf("paths.frame_source: %w", err)
	}
	c.Paths.EncoderBinary = strings.TrimSpace(c.Paths.EncoderBinary)
	if c.Paths.EncoderBinary == "" {
		if value, ok := os.LookupEnv("SCREENRECORDER_ENCODER"); ok {
			c.Paths.EncoderBinary = strings.TrimSpace(value)
		}
	}
	if c.Paths.EncoderBinary == "" {
		c.Paths.EncoderBinary = defaultEncoderBinary
	}
	// Bare names are resolved through PATH at spawn time.
	if strings.ContainsRune(c.Paths.EncoderBinary, '/') {
		if c.Paths.EncoderBinary, err = expandPath(c.Paths.EncoderBinary); err != nil {
			return fmt.Errorf("paths.encoder_binary: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCapture() {
	if c.Capture.ProgressEvery < 0 {
		c.Capture.ProgressEvery = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json", "auto":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}
