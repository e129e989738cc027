package recorder

import (
	"errors"
	"log/slog"

	"screenrecorder/internal/logging"
)

type releaseStep struct {
	name string
	fn   func() error
}

// shutdown releases session resources in reverse order of acquisition.
// A failing step is logged and the remaining steps still run.
type shutdown struct {
	logger *slog.Logger
	steps  []releaseStep
	done   bool
}

func newShutdown(logger *slog.Logger) *shutdown {
	return &shutdown{logger: logger}
}

func (s *shutdown) push(name string, fn func() error) {
	s.steps = append(s.steps, releaseStep{name: name, fn: fn})
}

// run executes every registered step once and returns their joined errors.
func (s *shutdown) run() error {
	if s.done {
		return nil
	}
	s.done = true

	var errs []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.fn(); err != nil {
			logging.WarnWithContext(s.logger, "shutdown step failed", "shutdown_step_failed",
				logging.String("step", step.name),
				logging.Error(err),
				logging.String(logging.FieldImpact, "resource may need manual cleanup"),
			)
			errs = append(errs, err)
			continue
		}
		s.logger.Debug("shutdown step complete", logging.String("step", step.name))
	}
	s.steps = nil
	return errors.Join(errs...)
}
