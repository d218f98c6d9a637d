package ports

import "go.trai.ch/comet/internal/core/domain"

// StateStore is the single source of truth for what is installed locally.
// Implementations hold an exclusive lock on the underlying storage for the
// lifetime of the handle and persist every mutation durably before
// returning.
//
//go:generate go run go.uber.org/mock/mockgen -source=state.go -destination=mocks/mock_state.go -package=mocks
type StateStore interface {
	// Installed returns a copy of the installed component versions.
	Installed() map[string]domain.Version

	// Pending returns the interrupted-transaction marker left by a previous
	// run, or nil when the installation is healthy.
	Pending() *domain.PendingTransaction

	// Begin persists a pending marker describing the full plan before any
	// disk mutation starts.
	Begin(plan domain.Plan) error

	// CommitInstall records that a component's files are durably in place.
	CommitInstall(id string, version domain.Version) error

	// CommitRemove records that a component's files are gone.
	CommitRemove(id string) error

	// Finalize clears the pending marker.
	Finalize() error

	// Close releases the storage lock. Safe to call more than once.
	Close() error
}
