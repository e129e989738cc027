// Package recorder runs one recording session end to end.
//
// A session takes the single-session lock, publishes the PID marker,
// prepares the output directory, maps the frame source, launches the
// encoder, and streams frames until the context is cancelled or a write
// fails. Whatever was acquired is released by the shutdown sequence on
// every exit path, in reverse order of acquisition.
package recorder
