package ports

import "context"

// Downloader fetches a single blob to a local path.
//
//go:generate go run go.uber.org/mock/mockgen -source=downloader.go -destination=mocks/mock_downloader.go -package=mocks
type Downloader interface {
	// Download streams the blob at source into dest, creating parent
	// directories as needed, and returns the xxhash64 hex digest of the
	// bytes written.
	Download(ctx context.Context, source, dest string) (string, error)
}
