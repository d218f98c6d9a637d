package state

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/zerr"
)

// lockFile is an exclusive advisory lock implemented with O_CREATE|O_EXCL.
// The file records the owning pid so a conflicting invocation can report who
// holds the lock. A lock left behind by a crashed process must be removed
// manually; the error names it.
type lockFile struct {
	path string

	mu       sync.Mutex
	released bool
}

func acquireLock(path string) (*lockFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			lockErr := zerr.With(domain.ErrConcurrentModification, "lock_path", path)
			if pid, ok := readOwnerPID(path); ok {
				lockErr = zerr.With(lockErr, "owner_pid", pid)
			}
			return nil, lockErr
		}
		return nil, zerr.Wrap(err, "failed to create lock file")
	}
	_, writeErr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	closeErr := f.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(path)
		return nil, zerr.Wrap(errors.Join(writeErr, closeErr), "failed to write lock file")
	}
	return &lockFile{path: path}, nil
}

func (l *lockFile) release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return nil
	}
	l.released = true
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove lock file")
	}
	return nil
}

func readOwnerPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}
