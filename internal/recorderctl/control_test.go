package recorderctl_test

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"screenrecorder/internal/lifecycle"
	"screenrecorder/internal/recorderctl"
	"screenrecorder/internal/testsupport"
)

// startChild runs a shell script and reaps it in the background so an exited
// child never lingers as a zombie that still answers signal 0.
func startChild(t *testing.T, script string) (*exec.Cmd, <-chan struct{}) {
	t.Helper()
	cmd := exec.Command("/bin/sh", "-c", script)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}
	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		<-exited
	})
	return cmd, exited
}

func writeMarker(t *testing.T, path string, pid int) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
}

func TestProcessAlive(t *testing.T) {
	if !recorderctl.ProcessAlive(os.Getpid()) {
		t.Fatal("current process should be alive")
	}
	if recorderctl.ProcessAlive(0) || recorderctl.ProcessAlive(-1) {
		t.Fatal("non-positive pids are never alive")
	}
}

func TestStopWithoutMarker(t *testing.T) {
	cfg := testsupport.Config(t)
	if _, err := recorderctl.Stop(t.Context(), cfg, recorderctl.StopOptions{}); !errors.Is(err, recorderctl.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestStopRefusesSelf(t *testing.T) {
	cfg := testsupport.Config(t)
	writeMarker(t, cfg.Paths.PIDFile, os.Getpid())
	if _, err := recorderctl.Stop(t.Context(), cfg, recorderctl.StopOptions{}); err == nil {
		t.Fatal("expected refusal to signal current process")
	}
}

func TestStopRemovesStaleMarker(t *testing.T) {
	cfg := testsupport.Config(t)
	cmd, exited := startChild(t, "exit 0")
	<-exited
	writeMarker(t, cfg.Paths.PIDFile, cmd.Process.Pid)

	result, err := recorderctl.Stop(t.Context(), cfg, recorderctl.StopOptions{})
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !result.StaleMarker || result.Graceful {
		t.Fatalf("expected stale marker result, got %+v", result)
	}
	if _, err := os.Stat(cfg.Paths.PIDFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected stale marker removed, stat err=%v", err)
	}
}

func TestStopSendsTermAndWaits(t *testing.T) {
	cfg := testsupport.Config(t)
	cmd, exited := startChild(t, "exec sleep 30")
	writeMarker(t, cfg.Paths.PIDFile, cmd.Process.Pid)

	result, err := recorderctl.Stop(t.Context(), cfg, recorderctl.StopOptions{
		Timeout:      5 * time.Second,
		PollInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	<-exited
	if !result.Graceful || result.ForcedKill {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.PID != cmd.Process.Pid {
		t.Fatalf("PID = %d, want %d", result.PID, cmd.Process.Pid)
	}
	if _, err := os.Stat(cfg.Paths.PIDFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected marker cleared after stop, stat err=%v", err)
	}
}

func TestStopForceKillsStubbornProcess(t *testing.T) {
	cfg := testsupport.Config(t)
	cmd, exited := startChild(t, "trap '' TERM\nwhile :; do sleep 0.05; done")
	writeMarker(t, cfg.Paths.PIDFile, cmd.Process.Pid)
	time.Sleep(50 * time.Millisecond)

	if _, err := recorderctl.Stop(t.Context(), cfg, recorderctl.StopOptions{
		Timeout:      100 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	}); err == nil {
		t.Fatal("expected timeout error without --force")
	}

	result, err := recorderctl.Stop(t.Context(), cfg, recorderctl.StopOptions{
		Timeout:      100 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		Force:        true,
	})
	if err != nil {
		t.Fatalf("Stop --force: %v", err)
	}
	if !result.ForcedKill {
		t.Fatalf("expected forced kill, got %+v", result)
	}
	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("child still running after SIGKILL")
	}
	if _, err := os.Stat(cfg.Paths.PIDFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected marker removed, stat err=%v", err)
	}
}

func TestInspectReportsState(t *testing.T) {
	cfg := testsupport.Config(t)
	testsupport.WriteFile(t, cfg.Paths.FrameSource, 16)

	snap, err := recorderctl.Inspect(cfg, 64)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if snap.Running || snap.StaleMarker || snap.LockHeld {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	lines := map[string]recorderctl.StatusLine{}
	for _, line := range snap.Lines {
		lines[line.Label] = line
	}
	if lines["Recorder"].Severity != "info" {
		t.Fatalf("recorder line = %+v", lines["Recorder"])
	}
	if lines["Frame Source"].Severity != "error" {
		t.Fatalf("undersized frame source should be an error, got %+v", lines["Frame Source"])
	}
	if lines["Encoder"].Severity != "error" {
		t.Fatalf("missing encoder should be an error, got %+v", lines["Encoder"])
	}

	lock := lifecycle.NewSessionLock(cfg.Paths.LockFile)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()
	writeMarker(t, cfg.Paths.PIDFile, os.Getpid())

	snap, err = recorderctl.Inspect(cfg, 16)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !snap.Running || !snap.LockHeld || snap.PID != os.Getpid() {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
