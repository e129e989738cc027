package encoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"screenrecorder/internal/failures"
	"screenrecorder/internal/logging"
)

// DefaultStartCheck is how long Start waits before checking that the child survived launch.
const DefaultStartCheck = 100 * time.Millisecond

// StartOptions describes one encoder launch.
type StartOptions struct {
	Binary     string
	Width      int
	Height     int
	Output     string
	StartCheck time.Duration
	Logger     *slog.Logger
}

// Process is a running encoder and the write end of its input pipe.
type Process struct {
	cmd    *exec.Cmd
	stdin  *os.File
	logger *slog.Logger

	done    chan struct{}
	waitErr error

	closeOnce sync.Once
	closeErr  error
}

// Start launches the encoder with its stdin connected to a fresh pipe and
// verifies it is still running after the start check interval. On any
// failure nothing is left running and no descriptors stay open.
func Start(ctx context.Context, opts StartOptions) (*Process, error) {
	logger := logging.NewComponentLogger(opts.Logger, "encoder")
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		return nil, failures.Wrap(failures.ErrSpawn, "encoder", "start", "encoder binary not configured", nil)
	}
	startCheck := opts.StartCheck
	if startCheck <= 0 {
		startCheck = DefaultStartCheck
	}

	readEnd, writeEnd, err := os.Pipe()
	if err != nil {
		return nil, failures.Wrap(failures.ErrPipeCreate, "encoder", "pipe", "create stdin pipe", err)
	}

	args := Args(opts.Width, opts.Height, opts.Output)
	cmd := exec.Command(binary, args...)
	cmd.Stdin = readEnd
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		_ = readEnd.Close()
		_ = writeEnd.Close()
		return nil, failures.Wrap(failures.ErrSpawn, "encoder", "start", binary, err)
	}
	// The child holds its own copy; keeping ours would hide end-of-stream.
	_ = readEnd.Close()

	proc := &Process{
		cmd:    cmd,
		stdin:  writeEnd,
		logger: logger,
		done:   make(chan struct{}),
	}
	go proc.reap()

	logger.Info("encoder started",
		logging.String(logging.FieldEventType, "encoder_started"),
		logging.Int("pid", cmd.Process.Pid),
		logging.String("binary", binary),
		logging.String("output", opts.Output),
		logging.String("video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height)),
	)
	logger.Debug("encoder command", logging.String("args", strings.Join(args, " ")))

	timer := time.NewTimer(startCheck)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	case <-proc.done:
	}

	if proc.Exited() {
		_ = proc.Close()
		return nil, failures.Wrap(failures.ErrEncoderStart, "encoder", "start check",
			fmt.Sprintf("%s exited immediately (%s)", binary, describeExit(proc.waitErr)), proc.waitErr)
	}
	return proc, nil
}

func (p *Process) reap() {
	p.waitErr = p.cmd.Wait()
	close(p.done)
}

// PID returns the child's process ID.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Exited reports, without blocking, whether the child has been reaped.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Write sends bytes to the encoder's stdin. A child that has gone away
// surfaces as a broken pipe error.
func (p *Process) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Close signals end-of-stream and blocks until the child is reaped. The
// returned error is the child's exit status; later calls return the same value.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		var errs []error
		if err := p.stdin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stdin pipe: %w", err))
		}
		<-p.done
		if p.waitErr != nil {
			errs = append(errs, fmt.Errorf("encoder exit: %w", p.waitErr))
		}
		p.closeErr = errors.Join(errs...)
		p.logger.Debug("encoder reaped",
			logging.Int("pid", p.cmd.Process.Pid),
			logging.String("status", describeExit(p.waitErr)),
		)
	})
	return p.closeErr
}

func describeExit(err error) string {
	if err == nil {
		return "exit 0"
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return "signal " + status.Signal().String()
		}
		return fmt.Sprintf("exit %d", exitErr.ExitCode())
	}
	return err.Error()
}
