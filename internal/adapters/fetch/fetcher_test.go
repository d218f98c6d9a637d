package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/comet/internal/adapters/fetch"
	"go.trai.ch/comet/internal/core/domain"
)

const validSnapshot = `{
	"format_version": 1,
	"revision": "20260831_01",
	"components": [
		{"id": "base", "name": "Base", "version": "1.0.0"},
		{"id": "tool", "name": "Tool", "version": "2.0.0", "dependencies": ["base"]}
	]
}`

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(validSnapshot))
	}))
	defer srv.Close()

	f := fetch.New(nopLogger{})
	snapshot, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "20260831_01", snapshot.Revision)
	assert.Equal(t, 2, snapshot.Len())
	assert.True(t, snapshot.Has("tool"))
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(validSnapshot))
	}))
	defer srv.Close()

	f := fetch.New(nopLogger{}, fetch.WithAttempts(3), fetch.WithBackoff(time.Millisecond))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := fetch.New(nopLogger{}, fetch.WithAttempts(3), fetch.WithBackoff(time.Millisecond))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetworkFailure))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := fetch.New(nopLogger{}, fetch.WithAttempts(5), fetch.WithBackoff(time.Millisecond))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetcher_RejectsNewerFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"format_version": 99, "revision": "r", "components": []}`))
	}))
	defer srv.Close()

	f := fetch.New(nopLogger{})
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}

func TestFetcher_RejectsMalformedComponent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing version", `{"format_version": 1, "components": [{"id": "a", "name": "A"}]}`},
		{"malformed file entry", `{"format_version": 1, "components": [
			{"id": "a", "version": "1.0", "files": [{"path": "bin/a", "size": 10}]}
		]}`},
		{"unresolved dependency", `{"format_version": 1, "components": [
			{"id": "a", "version": "1.0", "dependencies": ["ghost"]}
		]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := fetch.New(nopLogger{})
			_, err := f.Fetch(context.Background(), srv.URL)
			assert.True(t, errors.Is(err, domain.ErrInvalidSnapshot), "got %v", err)
		})
	}
}

func TestFetcher_FileURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(validSnapshot), 0o600))

	f := fetch.New(nopLogger{})
	snapshot, err := f.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Len())
}

func TestFetcher_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := fetch.New(nopLogger{}, fetch.WithAttempts(3), fetch.WithBackoff(time.Hour))
	_, err := f.Fetch(ctx, srv.URL)
	require.Error(t, err)
}
