package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WriteMarker records the current process ID in path, replacing any previous content.
func WriteMarker(path string) error {
	return writePID(path, os.Getpid())
}

func writePID(path string, pid int) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("marker path is empty")
	}
	value := strconv.Itoa(pid) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

// RemoveMarker deletes the marker. A marker that is already gone is not an error.
func RemoveMarker(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ReadMarker parses the PID stored in path. The returned error wraps
// os.ErrNotExist when no marker is present.
func ReadMarker(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parse marker %s: %w", path, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("parse marker %s: invalid pid %d", path, pid)
	}
	return pid, nil
}
