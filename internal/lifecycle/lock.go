package lifecycle

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"screenrecorder/internal/failures"
)

// SessionLock is an exclusive advisory lock that admits one recording at a time.
type SessionLock struct {
	path string
	lock *flock.Flock
}

// NewSessionLock prepares a lock on path without acquiring it.
func NewSessionLock(path string) *SessionLock {
	return &SessionLock{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (l *SessionLock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. A lock held by another process
// fails with failures.ErrSessionActive; an unusable lock path fails with
// failures.ErrConfiguration.
func (l *SessionLock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return failures.Wrap(failures.ErrConfiguration, "lifecycle", "acquire lock",
			fmt.Sprintf("unable to lock %s", l.path), err)
	}
	if !ok {
		return failures.Wrap(failures.ErrSessionActive, "lifecycle", "acquire lock",
			"another recording session is already running", nil)
	}
	return nil
}

// Release drops the lock if held. Safe to call more than once.
func (l *SessionLock) Release() error {
	if l == nil || l.lock == nil || !l.lock.Locked() {
		return nil
	}
	return l.lock.Unlock()
}

// Held reports whether some process currently holds the lock at path.
func Held(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	other := flock.New(path)
	ok, err := other.TryLock()
	if err != nil {
		return false, err
	}
	if ok {
		_ = other.Unlock()
		return false, nil
	}
	return true, nil
}
