package domain

import (
	"sort"
	"time"
)

// Report summarizes what a transaction actually did.
type Report struct {
	Installed []string
	Updated   []string
	Removed   []string
	// Failed maps each failed component to its cause.
	Failed map[string]error
	// Skipped lists components never attempted because a dependency failed
	// or the run was cancelled first.
	Skipped []string
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Failed: make(map[string]error)}
}

// Changed returns every component whose operation fully committed, sorted.
func (r *Report) Changed() []string {
	ids := make([]string, 0, len(r.Installed)+len(r.Updated)+len(r.Removed))
	ids = append(ids, r.Installed...)
	ids = append(ids, r.Updated...)
	ids = append(ids, r.Removed...)
	sort.Strings(ids)
	return ids
}

// Clean reports whether every operation succeeded.
func (r *Report) Clean() bool {
	return len(r.Failed) == 0 && len(r.Skipped) == 0
}

// PendingTransaction is the write-ahead marker persisted before a plan
// mutates disk. Its presence on load means a previous run was interrupted.
type PendingTransaction struct {
	ID        string
	StartedAt time.Time
	Plan      Plan
}
