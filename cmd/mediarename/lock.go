package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var errLocked = errors.New("another mediarename run holds the lock")

// lockPath places the run lock beside the config file.
func lockPath(cfgPath string) string {
	return filepath.Join(filepath.Dir(cfgPath), ".mediarename.lock")
}

// acquireRunLock takes the single-run lock without waiting. The returned
// function releases it.
func acquireRunLock(cfgPath string) (func(), error) {
	path := lockPath(cfgPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", errLocked, path)
	}
	return func() { _ = lock.Unlock() }, nil
}
