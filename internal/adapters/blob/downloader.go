// Package blob downloads component files into staging, hashing the content
// as it streams to disk.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/comet/internal/core/ports"
	"go.trai.ch/zerr"
)

const defaultHTTPTimeout = 5 * time.Minute

var _ ports.Downloader = (*Downloader)(nil)

// Downloader implements ports.Downloader for http(s) and file URLs.
type Downloader struct {
	client *http.Client
}

// New creates a Downloader.
func New() *Downloader {
	return &Downloader{client: &http.Client{Timeout: defaultHTTPTimeout}}
}

// NewWithClient creates a Downloader with a custom HTTP client. Used in tests.
func NewWithClient(c *http.Client) *Downloader {
	return &Downloader{client: c}
}

// Download streams the blob at source into dest and returns the xxhash64 hex
// digest of the written bytes. Parent directories are created as needed.
func (d *Downloader) Download(ctx context.Context, source, dest string) (string, error) {
	body, err := d.open(ctx, source)
	if err != nil {
		return "", err
	}
	defer body.Close() //nolint:errcheck // Best effort close in defer

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create staging directory")
	}
	f, err := os.Create(dest) //nolint:gosec // Dest is inside a staging dir owned by the executor
	if err != nil {
		return "", zerr.Wrap(err, "failed to create staging file")
	}

	hasher := xxhash.New()
	_, copyErr := io.Copy(io.MultiWriter(f, hasher), body)
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(dest)
		return "", zerr.With(zerr.Wrap(copyErr, "failed to download blob"), "source", source)
	}
	if closeErr != nil {
		_ = os.Remove(dest)
		return "", zerr.Wrap(closeErr, "failed to close staging file")
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (d *Downloader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if path, ok := strings.CutPrefix(source, "file://"); ok {
		f, err := os.Open(path) //nolint:gosec // Source comes from a validated snapshot
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to open blob file"), "source", source)
		}
		return f, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build blob request")
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "blob request failed"), "source", source)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		err := zerr.With(zerr.New("unexpected blob response status"), "status", resp.StatusCode)
		return nil, zerr.With(err, "source", source)
	}
	return resp.Body, nil
}
