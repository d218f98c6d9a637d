// Package state persists the local installation state as a flat JSON file
// with atomic replace-on-write and an exclusive lock per invocation.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	stateDirName  = ".comet"
	stateFileName = "state.json"
	lockFileName  = "state.lock"
)

// Store implements ports.StateStore backed by <root>/.comet/state.json.
type Store struct {
	dir  string
	path string
	lock *lockFile

	mu   sync.Mutex
	data stateFile
}

type stateFile struct {
	Installed map[string]domain.Version  `json:"installed"`
	Pending   *domain.PendingTransaction `json:"pending,omitempty"`
}

// Open acquires the exclusive state lock under root and loads the state
// file. A second concurrent invocation fails fast with
// ErrConcurrentModification. The caller must Close the store on every exit
// path.
func Open(root string) (*Store, error) {
	dir := filepath.Join(root, stateDirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.Wrap(err, "failed to create state directory")
	}
	lock, err := acquireLock(filepath.Join(dir, lockFileName))
	if err != nil {
		return nil, err
	}
	s := &Store{
		dir:  dir,
		path: filepath.Join(dir, stateFileName),
		lock: lock,
		data: stateFile{Installed: make(map[string]domain.Version)},
	}
	if err := s.load(); err != nil {
		lock.release()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read state file")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.data); err != nil {
		return zerr.Wrap(err, "failed to unmarshal state file")
	}
	if s.data.Installed == nil {
		s.data.Installed = make(map[string]domain.Version)
	}
	return nil
}

// save writes the state to a temp file and renames it into place so that a
// crash never leaves a half-written state file.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal state")
	}
	tmp, err := os.CreateTemp(s.dir, stateFileName+".tmp-")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp state file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to write temp state file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to sync temp state file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to close temp state file")
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.Wrap(err, "failed to replace state file")
	}
	return nil
}

// Installed returns a copy of the installed component versions.
func (s *Store) Installed() map[string]domain.Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.Version, len(s.data.Installed))
	for id, v := range s.data.Installed {
		out[id] = v
	}
	return out
}

// Pending returns the interrupted-transaction marker, if present.
func (s *Store) Pending() *domain.PendingTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Pending == nil {
		return nil
	}
	p := *s.data.Pending
	return &p
}

// Begin persists the write-ahead marker for the plan.
func (s *Store) Begin(plan domain.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Pending = &domain.PendingTransaction{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Plan:      plan,
	}
	return s.save()
}

// CommitInstall records and persists one component's installed version.
func (s *Store) CommitInstall(id string, version domain.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Installed[id] = version
	return s.save()
}

// CommitRemove drops and persists one component's record.
func (s *Store) CommitRemove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.Installed, id)
	return s.save()
}

// Finalize clears the pending marker.
func (s *Store) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Pending == nil {
		return nil
	}
	s.data.Pending = nil
	return s.save()
}

// Close releases the state lock. Safe to call more than once.
func (s *Store) Close() error {
	return s.lock.release()
}
