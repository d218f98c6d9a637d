package state_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/comet/internal/adapters/state"
	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestOpen_ConcurrentConflict(t *testing.T) {
	root := t.TempDir()

	first, err := state.Open(root)
	require.NoError(t, err)
	defer func() { _ = first.Close() }()

	_, err = state.Open(root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConcurrentModification))

	// The error names the lock holder
	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	meta := zErr.Metadata()
	assert.NotEmpty(t, meta["lock_path"])
	assert.NotZero(t, meta["owner_pid"])
}

func TestOpen_LockReleasedOnClose(t *testing.T) {
	root := t.TempDir()

	first, err := state.Open(root)
	require.NoError(t, err)
	require.NoError(t, first.Close())
	// Close twice is fine
	require.NoError(t, first.Close())

	second, err := state.Open(root)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
