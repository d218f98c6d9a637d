package executor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/comet/internal/core/domain"
)

func TestRecover_NoPendingMarker(t *testing.T) {
	h := newHarness(t, 1)
	require.NoError(t, h.exec.Recover(context.Background()))
}

func TestRecover_RevertsUncommittedFiles(t *testing.T) {
	h := newHarness(t, 1)

	// Simulate a crash after the swap but before the state commit: the
	// files are on disk, the state has no record, the marker is pending.
	require.NoError(t, os.MkdirAll(filepath.Join(h.root, "tool", "bin"), 0o750))
	require.NoError(t, h.store.Begin(domain.Plan{ToInstall: []string{"tool"}}))

	require.NoError(t, h.exec.Recover(context.Background()))

	_, err := os.Stat(filepath.Join(h.root, "tool"))
	assert.True(t, os.IsNotExist(err))
	assert.Nil(t, h.store.Pending())
}

func TestRecover_DropsStaleStateRecord(t *testing.T) {
	h := newHarness(t, 1)

	// Simulate a crash between a removal's file deletion and its state
	// commit: the record survived, the files did not.
	require.NoError(t, h.store.CommitInstall("tool", "1.0.0"))
	require.NoError(t, h.store.Begin(domain.Plan{ToRemove: []string{"tool"}}))

	require.NoError(t, h.exec.Recover(context.Background()))

	assert.NotContains(t, h.store.Installed(), "tool")
	assert.Nil(t, h.store.Pending())
}

func TestRecover_KeepsConsistentComponents(t *testing.T) {
	h := newHarness(t, 1)
	graph := buildGraph(t, h.component("base", "1.0.0"))
	_, err := h.exec.Execute(context.Background(), graph, domain.Plan{ToInstall: []string{"base"}})
	require.NoError(t, err)

	// A marker that covers an already consistent component changes nothing
	require.NoError(t, h.store.Begin(domain.Plan{ToUpdate: []string{"base"}}))
	require.NoError(t, h.exec.Recover(context.Background()))

	assert.Equal(t, domain.Version("1.0.0"), h.store.Installed()["base"])
	has, err := h.workspace.HasComponent("base")
	require.NoError(t, err)
	assert.True(t, has)
	assert.Nil(t, h.store.Pending())
}

func TestRecover_SweepsStagingLeftovers(t *testing.T) {
	h := newHarness(t, 1)

	staging, err := h.workspace.Stage("tool")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, "partial"), []byte("x"), 0o600))
	require.NoError(t, h.store.Begin(domain.Plan{ToInstall: []string{"tool"}}))

	require.NoError(t, h.exec.Recover(context.Background()))

	_, err = os.Stat(staging)
	assert.True(t, os.IsNotExist(err))
}
