// Package fetch retrieves the remote component snapshot over http(s) or from
// a local file URL, with bounded retry.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/comet/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	defaultAttempts    = 3
	defaultBackoff     = 500 * time.Millisecond
	defaultHTTPTimeout = 30 * time.Second

	// maxSnapshotBytes caps how much of an untrusted snapshot document is
	// read into memory.
	maxSnapshotBytes = 32 << 20
)

var _ ports.SnapshotFetcher = (*Fetcher)(nil)

// Fetcher implements ports.SnapshotFetcher.
type Fetcher struct {
	client   *http.Client
	attempts int
	backoff  time.Duration
	logger   ports.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithAttempts sets the retry ceiling for transient failures.
func WithAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithHTTPClient replaces the HTTP client. Used in tests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithBackoff sets the initial retry delay. It doubles per attempt.
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.backoff = d
		}
	}
}

// New creates a Fetcher with bounded retry defaults.
func New(logger ports.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves, validates, and builds the snapshot at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.Snapshot, error) {
	data, err := f.fetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	snapshot, err := parseSnapshot(data)
	if err != nil {
		return nil, zerr.With(err, "url", url)
	}
	return snapshot, nil
}

func (f *Fetcher) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	if path, ok := strings.CutPrefix(url, "file://"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read snapshot file"), "url", url)
		}
		return data, nil
	}

	var lastErr error
	delay := f.backoff
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt > 1 {
			f.logger.Warn(fmt.Sprintf("snapshot fetch failed, retrying (attempt %d/%d)", attempt, f.attempts))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, zerr.Wrap(ctx.Err(), "snapshot fetch cancelled")
			}
			delay *= 2
		}
		data, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	err := zerr.With(domain.ErrNetworkFailure, "url", url)
	err = zerr.With(err, "attempts", f.attempts)
	return nil, zerr.With(err, "cause", lastErr.Error())
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (data []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, zerr.Wrap(err, "failed to build snapshot request")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, zerr.Wrap(err, "snapshot request failed")
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	if resp.StatusCode != http.StatusOK {
		err := zerr.With(zerr.New("unexpected snapshot response status"), "status", resp.StatusCode)
		// 5xx responses are worth retrying, client errors are not.
		return nil, resp.StatusCode >= 500, err
	}
	data, err = io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, ctx.Err() == nil, zerr.Wrap(err, "failed to read snapshot body")
	}
	return data, false, nil
}
