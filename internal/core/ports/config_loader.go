package ports

import "go.trai.ch/comet/internal/core/domain"

// ConfigLoader loads and validates the runtime settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads settings from the given path. A missing file yields the
	// defaults rather than an error.
	Load(path string) (*domain.Settings, error)
}
