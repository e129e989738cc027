// Package stream copies frame snapshots into the encoder at a fixed cadence.
package stream

import (
	"context"
	"io"
	"log/slog"
	"time"

	"screenrecorder/internal/failures"
	"screenrecorder/internal/logging"
)

// DefaultInterval is the pause between frames, roughly 30 per second.
const DefaultInterval = 33 * time.Millisecond

// Source yields the current frame. The returned slice may alias memory
// another process is writing.
type Source interface {
	Bytes() []byte
}

// Options tunes the loop.
type Options struct {
	Interval      time.Duration
	ProgressEvery int
	Logger        *slog.Logger
}

// Stats summarises a finished loop.
type Stats struct {
	Frames  int64
	Bytes   int64
	Elapsed time.Duration
}

// Run streams src into dst until ctx is cancelled or a write fails. A
// cancelled context is a clean stop and returns a nil error. The snapshot
// is written straight from the source without an intermediate copy, and
// the same frame is resent if the producer has not updated it.
func Run(ctx context.Context, src Source, dst io.Writer, opts Options) (Stats, error) {
	logger := logging.NewComponentLogger(opts.Logger, "stream")
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	start := time.Now()
	var stats Stats
	finish := func() Stats {
		stats.Elapsed = time.Since(start)
		return stats
	}

	timer := time.NewTimer(interval)
	timer.Stop()
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return finish(), nil
		}

		frame := src.Bytes()
		n, err := writeFull(dst, frame)
		stats.Bytes += int64(n)
		if err != nil {
			return finish(), failures.Wrap(failures.ErrStreamWrite, "stream", "write frame",
				"encoder input rejected frame", err)
		}
		stats.Frames++

		if opts.ProgressEvery > 0 && stats.Frames%int64(opts.ProgressEvery) == 0 {
			logger.Debug("streaming progress",
				logging.Int64("frames", stats.Frames),
				logging.Int64("bytes", stats.Bytes),
				logging.Duration("elapsed", time.Since(start)),
			)
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return finish(), nil
		case <-timer.C:
		}
	}
}

// writeFull retries short writes with the remainder until all of b is
// accepted or dst reports an error.
func writeFull(dst io.Writer, b []byte) (int, error) {
	total := 0
	for total < len(b) {
		n, err := dst.Write(b[total:])
		if n > 0 {
			total += n
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}
