package domain

import (
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrCycleDetected is returned when the dependency relation of a snapshot,
	// restricted to the current platform, contains a cycle.
	ErrCycleDetected = zerr.New("dependency cycle detected")

	// ErrUnknownComponent is returned when a request names a component that is
	// not present in the snapshot for the current platform.
	ErrUnknownComponent = zerr.New("unknown component")

	// ErrDuplicateComponent is returned when a snapshot declares the same
	// component id twice.
	ErrDuplicateComponent = zerr.New("duplicate component id")

	// ErrInvalidSnapshot is returned when a snapshot document is structurally
	// unsound (unresolvable dependencies, unsafe ids, malformed entries).
	ErrInvalidSnapshot = zerr.New("invalid snapshot")

	// ErrUnsupportedFormat is returned when a snapshot's format version is
	// newer than this build understands.
	ErrUnsupportedFormat = zerr.New("unsupported snapshot format version")

	// ErrProtectedComponent is returned when a removal would take out a
	// component marked non-removable.
	ErrProtectedComponent = zerr.New("component is protected from removal")

	// ErrChecksumMismatch is returned when a downloaded file's checksum does
	// not match the value declared in the snapshot.
	ErrChecksumMismatch = zerr.New("checksum mismatch")

	// ErrNetworkFailure is returned when fetching the snapshot fails after
	// all retry attempts are exhausted.
	ErrNetworkFailure = zerr.New("network failure")

	// ErrConcurrentModification is returned when another process holds the
	// installation state lock.
	ErrConcurrentModification = zerr.New("installation is locked by another process")

	// ErrInterruptedTransaction is returned when the installation state
	// carries a pending transaction marker that cannot be reconciled
	// automatically.
	ErrInterruptedTransaction = zerr.New("previous transaction was interrupted")

	// ErrPartialFailure is the sentinel matched by errors.Is for
	// PartialFailureError values.
	ErrPartialFailure = zerr.New("some components failed")

	// ErrAborted is returned when the user declines a plan confirmation.
	ErrAborted = zerr.New("aborted")
)

// PartialFailureError reports the mixed outcome of a partially executed plan:
// which components changed state, which failed and why, and which were never
// attempted because a dependency failed first.
type PartialFailureError struct {
	// Completed lists components whose operations fully committed.
	Completed []string
	// Failed maps each failed component to its cause.
	Failed map[string]error
	// Remaining lists components skipped because a dependency failed or the
	// run was cancelled before reaching them.
	Remaining []string
}

func (e *PartialFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d component(s) failed", len(e.Failed))
	if ids := sortedKeys(e.Failed); len(ids) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(ids, ", "))
	}
	if len(e.Remaining) > 0 {
		fmt.Fprintf(&b, "; %d skipped: %s", len(e.Remaining), strings.Join(e.Remaining, ", "))
	}
	if len(e.Completed) > 0 {
		fmt.Fprintf(&b, "; %d completed", len(e.Completed))
	}
	return b.String()
}

// Is matches PartialFailureError against the ErrPartialFailure sentinel.
func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
