package blob_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/comet/internal/adapters/blob"
)

func TestDownloader_HTTP(t *testing.T) {
	content := []byte("component payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(content)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "staging", "bin", "tool")
	d := blob.New()
	checksum, err := d.Download(context.Background(), srv.URL, dest)
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	want := fmt.Sprintf("%016x", xxhash.Sum64(content))
	assert.Equal(t, want, checksum)
}

func TestDownloader_FileURL(t *testing.T) {
	content := []byte("local payload")
	src := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(src, content, 0o600))

	dest := filepath.Join(t.TempDir(), "out")
	d := blob.New()
	checksum, err := d.Download(context.Background(), "file://"+src, dest)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%016x", xxhash.Sum64(content)), checksum)
}

func TestDownloader_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out")
	d := blob.New()
	_, err := d.Download(context.Background(), srv.URL, dest)
	require.Error(t, err)

	// Nothing is left at dest on failure
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
