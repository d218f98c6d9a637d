package domain

import "go.trai.ch/zerr"

// Settings is the validated runtime configuration for one invocation.
type Settings struct {
	// Root is the installation root directory.
	Root string
	// SnapshotURL is where the component catalog is fetched from.
	SnapshotURL string
	// Platform the resolution runs against. Overridable for testing
	// cross-platform resolution without being on that platform.
	Platform Platform
	// Parallelism bounds concurrent component downloads.
	Parallelism int
	// Prune removes components the snapshot no longer offers during update.
	Prune bool
	// FetchAttempts bounds snapshot fetch retries.
	FetchAttempts int
}

// Validate checks the settings for values the rest of the system relies on.
func (s *Settings) Validate() error {
	if s.Root == "" {
		return zerr.New("install root must not be empty")
	}
	if s.SnapshotURL == "" {
		return zerr.New("snapshot URL must not be empty")
	}
	if s.Parallelism < 1 {
		return zerr.With(zerr.New("parallelism must be at least 1"), "parallelism", s.Parallelism)
	}
	if s.FetchAttempts < 1 {
		return zerr.With(zerr.New("fetch attempts must be at least 1"), "attempts", s.FetchAttempts)
	}
	return nil
}
