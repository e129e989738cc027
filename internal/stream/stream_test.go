package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"syscall"
	"testing"
	"time"

	"screenrecorder/internal/failures"
)

type staticSource []byte

func (s staticSource) Bytes() []byte { return s }

// chunkWriter accepts at most limit bytes per call.
type chunkWriter struct {
	buf   bytes.Buffer
	limit int
	calls int
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.calls++
	if len(p) > w.limit {
		p = p[:w.limit]
	}
	return w.buf.Write(p)
}

type failingWriter struct {
	after int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n >= w.after {
		return 0, syscall.EPIPE
	}
	w.n++
	return len(p), nil
}

// cancelAfter cancels once it has received count complete frames.
type cancelAfter struct {
	bytes.Buffer
	frameSize int
	count     int
	cancel    context.CancelFunc
}

func (w *cancelAfter) Write(p []byte) (int, error) {
	n, err := w.Buffer.Write(p)
	if w.Len() >= w.frameSize*w.count {
		w.cancel()
	}
	return n, err
}

func TestWriteFullRetriesShortWrites(t *testing.T) {
	w := &chunkWriter{limit: 3}
	payload := []byte("0123456789")

	n, err := writeFull(w, payload)
	if err != nil {
		t.Fatalf("writeFull: %v", err)
	}
	if n != len(payload) || !bytes.Equal(w.buf.Bytes(), payload) {
		t.Fatalf("wrote %d bytes %q", n, w.buf.Bytes())
	}
	if w.calls != 4 {
		t.Fatalf("expected 4 write calls, got %d", w.calls)
	}
}

type zeroWriter struct{}

func (zeroWriter) Write([]byte) (int, error) { return 0, nil }

func TestWriteFullRejectsZeroProgress(t *testing.T) {
	if _, err := writeFull(zeroWriter{}, []byte("x")); !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("expected io.ErrShortWrite, got %v", err)
	}
}

func TestRunStopsCleanlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	frame := staticSource(bytes.Repeat([]byte{9, 8, 7, 6}, 8))
	dst := &cancelAfter{frameSize: len(frame), count: 3, cancel: cancel}

	stats, err := Run(ctx, frame, dst, Options{Interval: time.Millisecond})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Frames != 3 {
		t.Fatalf("Frames = %d, want 3", stats.Frames)
	}
	if stats.Bytes != int64(3*len(frame)) {
		t.Fatalf("Bytes = %d, want %d", stats.Bytes, 3*len(frame))
	}
	if !bytes.Equal(dst.Bytes(), bytes.Repeat(frame, 3)) {
		t.Fatal("streamed bytes differ from repeated source frame")
	}
}

func TestRunReturnsImmediatelyWhenAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var dst bytes.Buffer
	stats, err := Run(ctx, staticSource("frame"), &dst, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Frames != 0 || dst.Len() != 0 {
		t.Fatalf("expected no frames, got %d (%d bytes)", stats.Frames, dst.Len())
	}
}

func TestRunSurfacesWriteFailure(t *testing.T) {
	dst := &failingWriter{after: 2}

	stats, err := Run(t.Context(), staticSource("frame"), dst, Options{Interval: time.Millisecond})
	if !errors.Is(err, failures.ErrStreamWrite) {
		t.Fatalf("expected ErrStreamWrite, got %v", err)
	}
	if !errors.Is(err, syscall.EPIPE) {
		t.Fatalf("expected EPIPE in chain, got %v", err)
	}
	if stats.Frames != 2 {
		t.Fatalf("Frames = %d, want 2", stats.Frames)
	}
}

func TestRunCancelInterruptsSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	var dst bytes.Buffer

	done := make(chan error, 1)
	go func() {
		_, err := Run(ctx, staticSource("frame"), &dst, Options{Interval: time.Hour})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
