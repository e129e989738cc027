// Package failures defines the error taxonomy shared by every recorder
// component.
//
// Each failure mode is a sentinel marker. Components tag their errors with
// Wrap so callers can classify them with errors.Is while the message keeps the
// component and operation that failed. None of the markers are retried: each
// one ends the session, and ExitCode turns the result into the process status.
package failures
