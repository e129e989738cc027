package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"screenrecorder/internal/config"
	"screenrecorder/internal/deps"
	"screenrecorder/internal/encoder"
	"screenrecorder/internal/failures"
	"screenrecorder/internal/framesource"
	"screenrecorder/internal/lifecycle"
	"screenrecorder/internal/logging"
	"screenrecorder/internal/stream"
)

// Result summarises a finished session.
type Result struct {
	SessionID string
	Stats     stream.Stats
	// EncoderErr is the encoder's exit status after end-of-stream. It is
	// reported but does not fail a cleanly stopped session.
	EncoderErr error
}

// Session is a single recording. Run may be called once.
type Session struct {
	cfg    *config.Config
	req    Request
	id     string
	logger *slog.Logger
	lock   *lifecycle.SessionLock
}

// New prepares a session. Nothing is acquired until Run.
func New(cfg *config.Config, logger *slog.Logger, req Request) (*Session, error) {
	if cfg == nil {
		return nil, failures.Wrap(failures.ErrConfiguration, "recorder", "new", "config is required", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := req.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		cfg:    cfg,
		req:    req,
		id:     id,
		logger: logging.NewComponentLogger(logger, "recorder"),
		lock:   lifecycle.NewSessionLock(cfg.Paths.LockFile),
	}, nil
}

// ID returns the session correlation ID.
func (s *Session) ID() string {
	return s.id
}

// Run records until ctx is cancelled or a fatal error occurs. A cancelled
// context is a clean stop and yields a nil error. Every resource acquired
// along the way is released before Run returns.
func (s *Session) Run(ctx context.Context) (result Result, err error) {
	result.SessionID = s.id
	started := time.Now()

	if err := s.lock.Acquire(); err != nil {
		return result, err
	}

	sd := newShutdown(s.logger)
	sd.push("release session lock", s.lock.Release)
	defer func() {
		_ = sd.run()
		s.logFinished(result, err, time.Since(started))
	}()

	markerPath := s.cfg.Paths.PIDFile
	if err := lifecycle.WriteMarker(markerPath); err != nil {
		// A partial write may have left a file behind.
		sd.push("remove pid marker", func() error { return lifecycle.RemoveMarker(markerPath) })
		return result, failures.Wrap(failures.ErrMarker, "recorder", "write marker", markerPath, err)
	}
	sd.push("remove pid marker", func() error { return lifecycle.RemoveMarker(markerPath) })

	s.logger.Info("recording session starting",
		logging.String(logging.FieldEventType, "session_start"),
		logging.String("output", s.req.OutputPath),
		logging.String("video_size", fmt.Sprintf("%dx%d", s.req.Width, s.req.Height)),
		logging.Int("frame_bytes", s.req.FrameSize()),
		logging.String("marker", markerPath),
	)
	s.logDependencySnapshot()

	if err := lifecycle.EnsureParentDir(s.req.OutputPath); err != nil {
		return result, failures.Wrap(failures.ErrOutputDir, "recorder", "prepare output",
			s.req.OutputPath, err)
	}

	capture := s.cfg.Capture
	frame, err := framesource.Acquire(ctx, s.cfg.Paths.FrameSource, s.req.FrameSize(),
		framesource.WaitOptions{
			PollInterval: capture.PollInterval(),
			Timeout:      capture.AcquireTimeout(),
		}, s.logger)
	if err != nil {
		return result, err
	}
	sd.push("release frame source", frame.Close)

	proc, err := encoder.Start(ctx, encoder.StartOptions{
		Binary:     s.cfg.Paths.EncoderBinary,
		Width:      s.req.Width,
		Height:     s.req.Height,
		Output:     s.req.OutputPath,
		StartCheck: capture.StartCheck(),
		Logger:     s.logger,
	})
	if err != nil {
		return result, err
	}
	sd.push("stop encoder", func() error {
		result.EncoderErr = proc.Close()
		if result.EncoderErr != nil {
			logging.WarnWithContext(s.logger, "encoder exited with error after end of stream", "encoder_exit",
				logging.Error(result.EncoderErr),
				logging.String(logging.FieldErrorHint, "inspect the output file; it may be truncated"),
				logging.String(logging.FieldImpact, "recording kept as written"),
			)
		}
		return nil
	})

	s.logger.Info("streaming frames",
		logging.String(logging.FieldEventType, "stream_start"),
		logging.Duration("interval", capture.FrameInterval()),
	)
	result.Stats, err = stream.Run(ctx, frame, proc, stream.Options{
		Interval:      capture.FrameInterval(),
		ProgressEvery: capture.ProgressEvery,
		Logger:        s.logger,
	})
	return result, err
}

func (s *Session) logFinished(result Result, err error, elapsed time.Duration) {
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "session_end"),
		logging.Int64("frames", result.Stats.Frames),
		logging.Int64("bytes", result.Stats.Bytes),
		logging.Duration("streamed", result.Stats.Elapsed),
		logging.Duration("elapsed", elapsed),
	}
	if err == nil {
		s.logger.Info("recording session finished", logging.Args(attrs...)...)
		return
	}
	if errors.Is(err, failures.ErrSessionActive) {
		return
	}
	attrs = append(attrs,
		logging.Error(err),
		logging.String(logging.FieldErrorKind, failures.Kind(err)),
		logging.String(logging.FieldErrorHint, errorHint(err)),
	)
	logging.ErrorWithContext(s.logger, "recording session failed", "session_failed", attrs...)
}

func (s *Session) logDependencySnapshot() {
	status := deps.CheckBinaries([]deps.Requirement{deps.EncoderRequirement(s.cfg.Paths.EncoderBinary)})[0]
	s.logger.Debug("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("encoder_available", status.Available),
		logging.String("encoder_binary", status.Command),
		logging.String("frame_source", s.cfg.Paths.FrameSource),
	)
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, failures.ErrSourceTimeout):
		return "check that the capture producer is running"
	case errors.Is(err, failures.ErrSizeMismatch):
		return "width and height must match the producer's frame geometry"
	case errors.Is(err, failures.ErrSpawn), errors.Is(err, failures.ErrEncoderStart):
		return "check the encoder binary and the output path"
	case errors.Is(err, failures.ErrStreamWrite):
		return "the encoder stopped reading; the output may be truncated"
	case errors.Is(err, failures.ErrOutputDir):
		return "check that the output location is writable"
	default:
		return "check logs for details"
	}
}
