package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// FillByte is the pattern WriteFile uses for generated content.
const FillByte = 0x42

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = FillByte
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteFrame writes one RGBA raster of width x height where every pixel's
// bytes encode its row index, so a flipped or truncated copy is easy to spot.
func WriteFrame(t testing.TB, path string, width, height int) []byte {
	t.Helper()

	data := make([]byte, width*height*4)
	for row := 0; row < height; row++ {
		for i := row * width * 4; i < (row+1)*width*4; i++ {
			data[i] = byte(row)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write frame %s: %v", path, err)
	}
	return data
}

// WriteExecutable writes a shell script to dir/name and marks it executable.
// The returned path is absolute.
func WriteExecutable(t testing.TB, dir, name, script string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write executable %s: %v", path, err)
	}
	return path
}
