// Package lifecycle owns the process-level plumbing around a recording
// session: the PID marker the launcher watches, the single-session lock,
// output directory preparation, and the SIGINT/SIGTERM cancellation context.
//
// Nothing here knows about frames or encoders; the recorder package composes
// these helpers into its setup and shutdown sequence.
package lifecycle
