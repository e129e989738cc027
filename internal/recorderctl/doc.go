// Package recorderctl inspects and stops a running recorder from another
// process, using only the PID marker, the session lock, and signals.
package recorderctl
