package fsops_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/comet/internal/adapters/fsops"
)

func newWorkspace(t *testing.T) (*fsops.Workspace, string) {
	t.Helper()
	root := t.TempDir()
	w, err := fsops.New(root)
	require.NoError(t, err)
	return w, root
}

func stageWithFile(t *testing.T, w *fsops.Workspace, id, name, content string) string {
	t.Helper()
	staging, err := w.Stage(id)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(staging, name), []byte(content), 0o600))
	return staging
}

func TestWorkspace_StageAndSwap(t *testing.T) {
	w, root := newWorkspace(t)

	has, err := w.HasComponent("tool")
	require.NoError(t, err)
	assert.False(t, has)

	staging := stageWithFile(t, w, "tool", "tool.bin", "v1")
	require.NoError(t, w.CommitSwap("tool", staging))

	has, err = w.HasComponent("tool")
	require.NoError(t, err)
	assert.True(t, has)

	data, err := os.ReadFile(filepath.Join(root, "tool", "tool.bin"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	// The staging directory moved, it must not linger
	_, err = os.Stat(staging)
	assert.True(t, os.IsNotExist(err))
}

func TestWorkspace_SwapReplacesOldVersion(t *testing.T) {
	w, root := newWorkspace(t)

	first := stageWithFile(t, w, "tool", "tool.bin", "v1")
	require.NoError(t, w.CommitSwap("tool", first))

	second := stageWithFile(t, w, "tool", "tool.bin", "v2")
	require.NoError(t, w.CommitSwap("tool", second))

	data, err := os.ReadFile(filepath.Join(root, "tool", "tool.bin"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestWorkspace_SwapRestoresOldOnFailure(t *testing.T) {
	w, root := newWorkspace(t)

	first := stageWithFile(t, w, "tool", "tool.bin", "v1")
	require.NoError(t, w.CommitSwap("tool", first))

	// A staging dir that no longer exists makes the swap rename fail
	missing := filepath.Join(root, ".comet", "staging", "tool.gone")
	err := w.CommitSwap("tool", missing)
	require.Error(t, err)

	// The old version is back in place
	data, err := os.ReadFile(filepath.Join(root, "tool", "tool.bin"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestWorkspace_Remove(t *testing.T) {
	w, _ := newWorkspace(t)

	staging := stageWithFile(t, w, "tool", "tool.bin", "v1")
	require.NoError(t, w.CommitSwap("tool", staging))
	require.NoError(t, w.Remove("tool"))

	has, err := w.HasComponent("tool")
	require.NoError(t, err)
	assert.False(t, has)

	// Removing an absent component is not an error
	require.NoError(t, w.Remove("tool"))
}

func TestWorkspace_DiscardStaging(t *testing.T) {
	w, _ := newWorkspace(t)

	staging := stageWithFile(t, w, "tool", "tool.bin", "v1")
	require.NoError(t, w.DiscardStaging(staging))

	_, err := os.Stat(staging)
	assert.True(t, os.IsNotExist(err))
}

func TestWorkspace_Sweep(t *testing.T) {
	w, root := newWorkspace(t)

	_ = stageWithFile(t, w, "a", "f", "x")
	_ = stageWithFile(t, w, "b", "f", "y")
	require.NoError(t, w.Sweep())

	entries, err := os.ReadDir(filepath.Join(root, ".comet", "staging"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
