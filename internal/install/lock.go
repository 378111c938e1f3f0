package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// LockFileName is created inside the install directory while an
	// install or uninstall is running.
	LockFileName = ".jvman.lock"
	// StaleLockThreshold is the maximum age of a lock before it's considered stale.
	StaleLockThreshold = 30 * time.Minute
)

// ErrLocked is returned when another jvman process holds the install lock.
var ErrLocked = errors.New("install directory is locked: another install may be in progress")

// Lock is an exclusive lock on an install directory.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock creates the lock file in dir with O_EXCL. A lock older than
// StaleLockThreshold (per clock) is removed and acquisition retried once.
func AcquireLock(dir string, clock Clock) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create install directory: %w", err)
	}

	lockPath := filepath.Join(dir, LockFileName)

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if os.IsExist(err) {
		if !isLockStale(lockPath, clock) {
			return nil, ErrLocked
		}
		_ = os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, ErrLocked
		}
	} else if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	lockData := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), clock.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(lockData); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock data: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Release removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

func isLockStale(lockPath string, clock Clock) bool {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false
	}
	return clock.Now().Sub(info.ModTime()) > StaleLockThreshold
}
