// Package singleinstance guards a long-running bnshell process (cmd/bnshell
// takes it for the API server only) against a second instance starting
// against the same config/state directory, grounded on original_source/exclperm.c:
// create-or-open a lock file, take a non-blocking exclusive flock on it,
// and remove it on clean release.
package singleinstance

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock is an acquired exclusive file lock tying one process to one path.
type Lock struct {
	path string
	file *os.File
}

// ErrAlreadyRunning is returned by Acquire when another process already
// holds the lock.
var ErrAlreadyRunning = fmt.Errorf("another instance already holds the lock")

// Acquire creates (or opens) path and takes a non-blocking exclusive lock
// on it. The returned Lock must be released with Release to delete the
// lock file; a process that dies without calling Release leaves the file
// behind but the OS releases the flock automatically on exit, so a
// subsequent Acquire from a live process still succeeds.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("singleinstance: open %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("singleinstance: flock %s: %w", path, err)
	}
	return &Lock{path: path, file: f}, nil
}

// Release unlocks and removes the lock file.
func (l *Lock) Release() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("singleinstance: unlock %s: %w", l.path, err)
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("singleinstance: close %s: %w", l.path, err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("singleinstance: remove %s: %w", l.path, err)
	}
	return nil
}
