package failures

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsage         = errors.New("usage error")
	ErrConfiguration = errors.New("configuration error")
	ErrSessionActive = errors.New("recording session already active")
	ErrMarker        = errors.New("pid marker error")
	ErrOutputDir     = errors.New("output directory error")
	ErrSourceTimeout = errors.New("frame source timeout")
	ErrSizeMismatch  = errors.New("frame source size mismatch")
	ErrMapFailure    = errors.New("frame source map failure")
	ErrPipeCreate    = errors.New("pipe create failure")
	ErrSpawn         = errors.New("encoder spawn failure")
	ErrEncoderStart  = errors.New("encoder start failure")
	ErrStreamWrite   = errors.New("stream write failure")
)

var markers = []struct {
	err  error
	name string
}{
	{ErrUsage, "usage"},
	{ErrConfiguration, "configuration"},
	{ErrSessionActive, "session_active"},
	{ErrMarker, "marker"},
	{ErrOutputDir, "output_dir"},
	{ErrSourceTimeout, "source_timeout"},
	{ErrSizeMismatch, "size_mismatch"},
	{ErrMapFailure, "map_failure"},
	{ErrPipeCreate, "pipe_create"},
	{ErrSpawn, "spawn"},
	{ErrEncoderStart, "encoder_start"},
	{ErrStreamWrite, "stream_write"},
}

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the sentinels above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short machine-friendly name for the marker carried by err,
// "unknown" when err carries none and "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range markers {
		if errors.Is(err, m.err) {
			return m.name
		}
	}
	return "unknown"
}

// ExitCode maps a session result to the process exit status. Every failure is
// fatal to the session, so anything non-nil exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "recorder failure"
	}
	return strings.Join(parts, ": ")
}
