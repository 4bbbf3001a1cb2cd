// Package filelock serializes planner mutations across processes with an
// advisory lock file.
package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	lockFileMode = 0o600
	// FileName is the lock file created inside the planner directory.
	FileName = ".lock"

	retryInterval = 10 * time.Millisecond
)

// Lock is a held advisory lock.
type Lock struct {
	f *os.File
}

// Acquire takes the exclusive planner lock in dir, waiting until it is
// free or ctx is done.
func Acquire(ctx context.Context, dir string) (*Lock, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted planner dir
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	for {
		ok, err := tryLockFile(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("locking %s: %w", path, err)
		}
		if ok {
			return &Lock{f: f}, nil
		}
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, fmt.Errorf("waiting for planner lock: %w", ctx.Err())
		case <-time.After(retryInterval):
		}
	}
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	unlockErr := unlockFile(l.f)
	closeErr := l.f.Close()
	l.f = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
