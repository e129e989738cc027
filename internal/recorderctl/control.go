package recorderctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"screenrecorder/internal/config"
	"screenrecorder/internal/deps"
	"screenrecorder/internal/lifecycle"
)

// ErrNotRunning indicates no recorder marker is present.
var ErrNotRunning = errors.New("recorder not running")

// StatusLine is one labelled row of status output.
type StatusLine struct {
	Label    string
	Severity string
	Detail   string
}

// Snapshot is the recorder state as seen from outside the process.
type Snapshot struct {
	Running      bool
	PID          int
	StaleMarker  bool
	LockHeld     bool
	Lines        []StatusLine
	Dependencies []deps.Status
}

// ProcessAlive reports whether pid names a live process. A process owned by
// another user still counts as alive.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// Inspect collects recorder, frame source and encoder state for status output.
func Inspect(cfg *config.Config, frameSize int) (Snapshot, error) {
	if cfg == nil {
		return Snapshot{}, errors.New("configuration not available")
	}
	var snap Snapshot

	pid, err := lifecycle.ReadMarker(cfg.Paths.PIDFile)
	switch {
	case err == nil:
		snap.PID = pid
		snap.Running = ProcessAlive(pid)
		snap.StaleMarker = !snap.Running
	case errors.Is(err, os.ErrNotExist):
	default:
		snap.StaleMarker = true
	}

	held, lockErr := lifecycle.Held(cfg.Paths.LockFile)
	if lockErr == nil {
		snap.LockHeld = held
	}

	switch {
	case snap.Running:
		snap.Lines = append(snap.Lines, StatusLine{Label: "Recorder", Severity: "ok", Detail: fmt.Sprintf("Recording (pid %d)", pid)})
	case snap.StaleMarker:
		snap.Lines = append(snap.Lines, StatusLine{Label: "Recorder", Severity: "warn", Detail: "Stale marker at " + cfg.Paths.PIDFile})
	default:
		snap.Lines = append(snap.Lines, StatusLine{Label: "Recorder", Severity: "info", Detail: "Not running"})
	}

	switch {
	case lockErr != nil:
		snap.Lines = append(snap.Lines, StatusLine{Label: "Session Lock", Severity: "warn", Detail: lockErr.Error()})
	case held:
		snap.Lines = append(snap.Lines, StatusLine{Label: "Session Lock", Severity: "ok", Detail: "Held"})
	default:
		snap.Lines = append(snap.Lines, StatusLine{Label: "Session Lock", Severity: "info", Detail: "Free"})
	}

	snap.Lines = append(snap.Lines, frameSourceLine(cfg.Paths.FrameSource, frameSize))

	snap.Dependencies = deps.CheckBinaries([]deps.Requirement{deps.EncoderRequirement(cfg.Paths.EncoderBinary)})
	for _, dep := range snap.Dependencies {
		line := StatusLine{Label: dep.Name, Severity: "ok", Detail: dep.Command}
		if !dep.Available {
			line.Severity = "error"
			line.Detail = dep.Detail
		}
		snap.Lines = append(snap.Lines, line)
	}
	return snap, nil
}

func frameSourceLine(path string, frameSize int) StatusLine {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StatusLine{Label: "Frame Source", Severity: "warn", Detail: "Missing " + path}
		}
		return StatusLine{Label: "Frame Source", Severity: "error", Detail: err.Error()}
	}
	if frameSize > 0 && info.Size() < int64(frameSize) {
		return StatusLine{Label: "Frame Source", Severity: "error",
			Detail: fmt.Sprintf("%s is %d bytes, need %d", path, info.Size(), frameSize)}
	}
	return StatusLine{Label: "Frame Source", Severity: "ok", Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
}

// StopOptions controls Stop.
type StopOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	Force        bool
}

// StopResult captures the termination outcome.
type StopResult struct {
	PID         int
	Graceful    bool
	ForcedKill  bool
	StaleMarker bool
}

// Stop asks the recorder named by the PID marker to finish by sending
// SIGTERM, then waits for the marker to disappear or the process to exit.
// With Force, a recorder still alive at the timeout is killed and its
// marker removed.
func Stop(ctx context.Context, cfg *config.Config, opts StopOptions) (StopResult, error) {
	if cfg == nil {
		return StopResult{}, errors.New("configuration not available")
	}
	markerPath := cfg.Paths.PIDFile
	pid, err := lifecycle.ReadMarker(markerPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StopResult{}, ErrNotRunning
		}
		return StopResult{}, err
	}
	if pid == os.Getpid() {
		return StopResult{}, fmt.Errorf("refusing to signal current process (pid %d)", pid)
	}
	result := StopResult{PID: pid}

	if !ProcessAlive(pid) {
		result.StaleMarker = true
		return result, lifecycle.RemoveMarker(markerPath)
	}

	if err := unix.Kill(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return result, fmt.Errorf("signal recorder %d: %w", pid, err)
	}

	if err := WaitForShutdown(ctx, markerPath, pid, opts.Timeout, opts.PollInterval); err == nil {
		result.Graceful = true
		if _, statErr := os.Stat(markerPath); statErr == nil {
			result.StaleMarker = true
			return result, lifecycle.RemoveMarker(markerPath)
		}
		return result, nil
	} else if !opts.Force {
		return result, err
	}

	if err := unix.Kill(pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return result, fmt.Errorf("kill recorder %d: %w", pid, err)
	}
	result.ForcedKill = true
	if err := lifecycle.RemoveMarker(markerPath); err != nil {
		return result, fmt.Errorf("remove pid marker %q: %w", markerPath, err)
	}
	return result, nil
}

// WaitForShutdown waits until the marker is gone, no longer names pid, or
// pid has exited.
func WaitForShutdown(ctx context.Context, markerPath string, pid int, timeout, poll time.Duration) error {
	if poll <= 0 {
		poll = 200 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	deadline := time.Now().Add(timeout)
	for {
		current, err := lifecycle.ReadMarker(markerPath)
		if errors.Is(err, os.ErrNotExist) || (err == nil && current != pid) || !ProcessAlive(pid) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("recorder %d did not stop within %s", pid, timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(poll):
		}
	}
}
