package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"screenrecorder/internal/failures"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if shouldReport(err) {
			fmt.Fprintf(os.Stderr, "screenrecorder: %v\n", err)
			if errors.Is(err, failures.ErrUsage) {
				fmt.Fprintf(os.Stderr, "usage: %s\n", cmd.UseLine())
			}
		}
		os.Exit(failures.ExitCode(err))
	}
}

// shouldReport hides a bare cancellation from a signal but keeps any failure
// that carries its own marker, even if it also wraps context.Canceled.
func shouldReport(err error) bool {
	if err == nil {
		return false
	}
	return failures.Kind(err) != "unknown" || !errors.Is(err, context.Canceled)
}
