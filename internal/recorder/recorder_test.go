package recorder_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"screenrecorder/internal/config"
	"screenrecorder/internal/failures"
	"screenrecorder/internal/lifecycle"
	"screenrecorder/internal/logging"
	"screenrecorder/internal/recorder"
	"screenrecorder/internal/testsupport"
)

func newSession(t *testing.T, cfg *config.Config, width, height int) *recorder.Session {
	t.Helper()
	out := filepath.Join(t.TempDir(), "recordings", "clip.mjpeg")
	session, err := recorder.New(cfg, logging.NewNop(), recorder.Request{
		OutputPath: out,
		Width:      width,
		Height:     height,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return session
}

func assertReleased(t *testing.T, cfg *config.Config) {
	t.Helper()
	if _, err := os.Stat(cfg.Paths.PIDFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected pid marker removed, stat err=%v", err)
	}
	held, err := lifecycle.Held(cfg.Paths.LockFile)
	if err != nil {
		t.Fatalf("Held: %v", err)
	}
	if held {
		t.Fatal("expected session lock released")
	}
}

func waitForFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if info, err := os.Stat(path); err == nil && info.Size() >= minSize {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s to reach %d bytes", path, minSize)
}

func TestRunStreamsUntilCancelled(t *testing.T) {
	cfg := testsupport.Config(t)
	dir := filepath.Dir(cfg.Paths.EncoderBinary)
	captured := filepath.Join(dir, "captured.raw")
	testsupport.WriteExecutable(t, dir, "encoder", `cat > "`+captured+`"`)
	frame := testsupport.WriteFrame(t, cfg.Paths.FrameSource, 8, 4)

	session := newSession(t, cfg, 8, 4)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	type outcome struct {
		result recorder.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := session.Run(ctx)
		done <- outcome{result, err}
	}()

	waitForFile(t, cfg.Paths.PIDFile, 1)
	pid, err := lifecycle.ReadMarker(cfg.Paths.PIDFile)
	if err != nil || pid != os.Getpid() {
		t.Fatalf("ReadMarker = %d, %v", pid, err)
	}

	waitForFile(t, captured, int64(3*len(frame)))
	cancel()

	var got outcome
	select {
	case got = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop after cancel")
	}
	if got.err != nil {
		t.Fatalf("Run: %v", got.err)
	}
	if got.result.EncoderErr != nil {
		t.Fatalf("encoder exit: %v", got.result.EncoderErr)
	}
	if got.result.SessionID == "" {
		t.Fatal("expected session id")
	}
	if got.result.Stats.Frames < 3 {
		t.Fatalf("Frames = %d, want >= 3", got.result.Stats.Frames)
	}

	data, err := os.ReadFile(captured)
	if err != nil {
		t.Fatalf("read captured: %v", err)
	}
	if int64(len(data)) != got.result.Stats.Bytes {
		t.Fatalf("encoder received %d bytes, stats report %d", len(data), got.result.Stats.Bytes)
	}
	if !bytes.Equal(data, bytes.Repeat(frame, int(got.result.Stats.Frames))) {
		t.Fatal("encoder input differs from repeated source frame")
	}
	assertReleased(t, cfg)
}

func TestRunEncoderExitsImmediately(t *testing.T) {
	cfg := testsupport.Config(t)
	testsupport.WriteExecutable(t, filepath.Dir(cfg.Paths.EncoderBinary), "encoder", "exit 1")
	testsupport.WriteFrame(t, cfg.Paths.FrameSource, 4, 4)

	result, err := newSession(t, cfg, 4, 4).Run(t.Context())
	if !errors.Is(err, failures.ErrEncoderStart) {
		t.Fatalf("expected ErrEncoderStart, got %v", err)
	}
	if failures.ExitCode(err) != 1 {
		t.Fatalf("ExitCode = %d, want 1", failures.ExitCode(err))
	}
	if result.Stats.Frames != 0 {
		t.Fatalf("expected streaming loop never entered, got %d frames", result.Stats.Frames)
	}
	assertReleased(t, cfg)
}

func TestRunSourceNeverAppears(t *testing.T) {
	cfg := testsupport.Config(t)
	dir := filepath.Dir(cfg.Paths.EncoderBinary)
	spawned := filepath.Join(dir, "spawned")
	testsupport.WriteExecutable(t, dir, "encoder", `touch "`+spawned+`"`+"\ncat > /dev/null")

	start := time.Now()
	_, err := newSession(t, cfg, 4, 4).Run(t.Context())
	if !errors.Is(err, failures.ErrSourceTimeout) {
		t.Fatalf("expected ErrSourceTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("acquisition bound not honoured: %s", elapsed)
	}
	if _, statErr := os.Stat(spawned); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("encoder must not be spawned when the source never appears")
	}
	assertReleased(t, cfg)
}

func TestRunUndersizedSource(t *testing.T) {
	cfg := testsupport.Config(t)
	testsupport.WriteExecutable(t, filepath.Dir(cfg.Paths.EncoderBinary), "encoder", "cat > /dev/null")
	testsupport.WriteFile(t, cfg.Paths.FrameSource, 10)

	_, err := newSession(t, cfg, 4, 4).Run(t.Context())
	if !errors.Is(err, failures.ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	assertReleased(t, cfg)
}

func TestRunEncoderStopsReading(t *testing.T) {
	cfg := testsupport.Config(t)
	testsupport.WriteExecutable(t, filepath.Dir(cfg.Paths.EncoderBinary), "encoder", "sleep 0.2")
	testsupport.WriteFrame(t, cfg.Paths.FrameSource, 64, 64)

	_, err := newSession(t, cfg, 64, 64).Run(t.Context())
	if !errors.Is(err, failures.ErrStreamWrite) {
		t.Fatalf("expected ErrStreamWrite, got %v", err)
	}
	assertReleased(t, cfg)
}

func TestRunOutputDirFailure(t *testing.T) {
	cfg := testsupport.Config(t)
	testsupport.WriteExecutable(t, filepath.Dir(cfg.Paths.EncoderBinary), "encoder", "cat > /dev/null")
	testsupport.WriteFrame(t, cfg.Paths.FrameSource, 4, 4)

	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	session, err := recorder.New(cfg, logging.NewNop(), recorder.Request{
		OutputPath: filepath.Join(blocker, "clip.mjpeg"),
		Width:      4,
		Height:     4,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := session.Run(t.Context()); !errors.Is(err, failures.ErrOutputDir) {
		t.Fatalf("expected ErrOutputDir, got %v", err)
	}
	assertReleased(t, cfg)
}

func TestRunRefusesConcurrentSession(t *testing.T) {
	cfg := testsupport.Config(t)
	held := lifecycle.NewSessionLock(cfg.Paths.LockFile)
	if err := held.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer held.Release()

	if err := os.WriteFile(cfg.Paths.PIDFile, []byte("4242\n"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	_, err := newSession(t, cfg, 4, 4).Run(t.Context())
	if !errors.Is(err, failures.ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
	pid, err := lifecycle.ReadMarker(cfg.Paths.PIDFile)
	if err != nil || pid != 4242 {
		t.Fatalf("active session's marker must be untouched, got %d, %v", pid, err)
	}
}

func TestNewRejectsBadRequest(t *testing.T) {
	cfg := testsupport.Config(t)
	_, err := recorder.New(cfg, nil, recorder.Request{OutputPath: "clip.mjpeg", Width: 0, Height: 10})
	if !errors.Is(err, failures.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if _, err := recorder.New(nil, nil, recorder.Request{OutputPath: "x", Width: 1, Height: 1}); !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
