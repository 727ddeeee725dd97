package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// FileLock guards a fixture file against concurrent writers. Two follow-mode
// generators appending to the same file would interleave lines.
type FileLock struct {
	lockFile *os.File
	path     string
}

// Acquire takes an exclusive lock for the given output file. The lock lives
// in a dotfile next to the target.
func Acquire(target string) (*FileLock, error) {
	dir := filepath.Dir(target)
	base := filepath.Base(target)
	lockPath := filepath.Join(dir, "."+base+".lock")

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		return nil, fmt.Errorf("another generator is already writing to %s", target)
	}

	return &FileLock{
		lockFile: file,
		path:     lockPath,
	}, nil
}

// Release drops the lock and removes the lock file.
func (l *FileLock) Release() error {
	if l.lockFile == nil {
		return nil
	}

	syscall.Flock(int(l.lockFile.Fd()), syscall.LOCK_UN)
	l.lockFile.Close()
	os.Remove(l.path)

	return nil
}
