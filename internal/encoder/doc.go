// Package encoder runs the external video encoder as a child process fed
// through a one-directional pipe on its standard input.
//
// The child gets raw RGBA frames on stdin and its own process group, so
// terminal signals aimed at the recorder do not reach it. The only stop
// signal it ever receives is end-of-input when Close shuts the pipe.
package encoder
