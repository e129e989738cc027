package framesource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"screenrecorder/internal/failures"
	"screenrecorder/internal/logging"
)

// WaitOptions bounds how long Acquire waits for the producer.
type WaitOptions struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

// Frame is a read-only shared mapping of one RGBA raster.
type Frame struct {
	path string
	file *os.File
	data []byte

	closeOnce sync.Once
	closeErr  error
}

// Acquire polls for path until it can be opened, validates that it holds at
// least size bytes, and maps exactly size bytes of it.
func Acquire(ctx context.Context, path string, size int, opts WaitOptions, logger *slog.Logger) (*Frame, error) {
	logger = logging.NewComponentLogger(logger, "framesource")
	if size <= 0 {
		return nil, failures.Wrap(failures.ErrSizeMismatch, "framesource", "acquire",
			fmt.Sprintf("invalid frame size %d", size), nil)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 33 * time.Millisecond
	}

	file, err := waitForSource(ctx, path, opts, logger)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, failures.Wrap(failures.ErrSizeMismatch, "framesource", "stat", path, err)
	}
	if info.Size() < int64(size) {
		_ = file.Close()
		return nil, failures.Wrap(failures.ErrSizeMismatch, "framesource", "validate",
			fmt.Sprintf("%s is %d bytes, need %d", path, info.Size(), size), nil)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = file.Close()
		return nil, failures.Wrap(failures.ErrMapFailure, "framesource", "mmap", path, err)
	}

	logger.Info("frame source mapped",
		logging.String(logging.FieldEventType, "source_mapped"),
		logging.String("path", path),
		logging.Int("frame_bytes", size),
		logging.Int64("source_bytes", info.Size()),
	)
	return &Frame{path: path, file: file, data: data}, nil
}

func waitForSource(ctx context.Context, path string, opts WaitOptions, logger *slog.Logger) (*os.File, error) {
	var deadline <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	start := time.Now()
	var lastErr error
	for {
		file, err := os.Open(path)
		if err == nil {
			if lastErr != nil {
				logger.Debug("frame source appeared",
					logging.String("path", path),
					logging.Duration("waited", time.Since(start)),
				)
			}
			return file, nil
		}
		if lastErr == nil {
			logger.Info("waiting for frame source",
				logging.String(logging.FieldEventType, "source_wait"),
				logging.String("path", path),
				logging.Duration("timeout", opts.Timeout),
			)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, failures.Wrap(failures.ErrSourceTimeout, "framesource", "wait",
				fmt.Sprintf("cancelled while waiting for %s (last open error: %v)", path, lastErr), ctx.Err())
		case <-deadline:
			return nil, failures.Wrap(failures.ErrSourceTimeout, "framesource", "wait",
				fmt.Sprintf("%s not available after %s", path, opts.Timeout), lastErr)
		case <-ticker.C:
		}
	}
}

// Bytes returns the live mapping. The slice is only valid until Close.
func (f *Frame) Bytes() []byte {
	return f.data
}

// Size is the mapped length in bytes.
func (f *Frame) Size() int {
	return len(f.data)
}

// Path returns the mapped file's location.
func (f *Frame) Path() string {
	return f.path
}

// Close unmaps the frame and then closes its descriptor. Later calls return
// the first call's result.
func (f *Frame) Close() error {
	if f == nil {
		return nil
	}
	f.closeOnce.Do(func() {
		var errs []error
		if f.data != nil {
			if err := unix.Munmap(f.data); err != nil {
				errs = append(errs, fmt.Errorf("munmap: %w", err))
			}
			f.data = nil
		}
		if f.file != nil {
			if err := f.file.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close: %w", err))
			}
		}
		f.closeErr = errors.Join(errs...)
	})
	return f.closeErr
}
