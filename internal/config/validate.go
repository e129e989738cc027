package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	for _, entry := range []struct {
		key   string
		value string
	}{
		{"paths.pid_file", c.Paths.PIDFile},
		{"paths.lock_file", c.Paths.LockFile},
		{"paths.frame_source", c.Paths.FrameSource},
		{"paths.encoder_binary", c.Paths.EncoderBinary},
	} {
		if strings.TrimSpace(entry.value) == "" {
			return fmt.Errorf("%s must be set", entry.key)
		}
	}
	if c.Paths.PIDFile == c.Paths.LockFile {
		return errors.New("paths.pid_file and paths.lock_file must differ")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if err := ensurePositiveMap(map[string]int{
		"capture.poll_interval_ms":   c.Capture.PollIntervalMillis,
		"capture.acquire_timeout_ms": c.Capture.AcquireTimeoutMillis,
		"capture.frame_interval_ms":  c.Capture.FrameIntervalMillis,
		"capture.start_check_ms":     c.Capture.StartCheckMillis,
	}); err != nil {
		return err
	}
	if c.Capture.AcquireTimeoutMillis < c.Capture.PollIntervalMillis {
		return errors.New("capture.acquire_timeout_ms must be at least capture.poll_interval_ms")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
