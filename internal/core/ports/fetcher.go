package ports

import (
	"context"

	"go.trai.ch/comet/internal/core/domain"
)

// SnapshotFetcher retrieves and validates the remote component catalog.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type SnapshotFetcher interface {
	// Fetch downloads the snapshot document at url, validates it, and builds
	// the immutable Snapshot. The document is untrusted input; nothing is
	// returned until the format version and structure check out.
	Fetch(ctx context.Context, url string) (*domain.Snapshot, error)
}
