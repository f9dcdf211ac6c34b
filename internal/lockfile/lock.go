// Package lockfile provides the cross-process busy flag that keeps two
// resxsweep runs from scanning or deleting against the same project at once.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ErrLockBusy is returned when another process holds the lock.
var ErrLockBusy = errors.New("another resxsweep operation is in progress")

// Lock is a held lock file. Release it when the operation finishes.
type Lock struct {
	f *os.File
}

// Acquire takes an exclusive non-blocking lock on path, creating the file and
// its directory if needed. The holder's PID is written into the file for
// diagnostics.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644) // #nosec G304 - controlled path
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := flockExclusive(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)
	}
	return &Lock{f: f}, nil
}

// Release unlocks and closes the lock file. The file itself is left in place
// so a concurrent Acquire never races an unlink.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := flockUnlock(l.f)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
