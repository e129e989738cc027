package testsupport

import (
	"path/filepath"
	"testing"

	"screenrecorder/internal/config"
)

// Config returns a configuration whose well-known paths all live in a fresh
// temporary directory, with timings shortened for tests.
func Config(t testing.TB) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.PIDFile = filepath.Join(dir, "screenrecorder.pid")
	cfg.Paths.LockFile = filepath.Join(dir, "screenrecorder.lock")
	cfg.Paths.FrameSource = filepath.Join(dir, "fb_mirror.raw")
	cfg.Paths.EncoderBinary = filepath.Join(dir, "encoder")
	cfg.Capture.PollIntervalMillis = 5
	cfg.Capture.AcquireTimeoutMillis = 200
	cfg.Capture.FrameIntervalMillis = 5
	cfg.Capture.StartCheckMillis = 50
	cfg.Logging.Format = "console"
	cfg.Logging.Level = "error"
	return &cfg
}
