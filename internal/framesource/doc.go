// Package framesource waits for the capture producer's raw frame file and
// maps it read-only for the lifetime of a recording.
//
// The mapping is shared with the producer, which keeps overwriting it in
// place. Readers see whatever bytes are present at read time; a frame may
// be torn across two producer writes and that is accepted.
package framesource
