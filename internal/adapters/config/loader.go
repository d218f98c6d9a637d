// Package config provides the configuration loader for comet.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/comet/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the config file looked up when no path is given.
const DefaultFilename = "comet.yaml"

const maxParallelism = 8

var _ ports.ConfigLoader = (*FileLoader)(nil)

// FileLoader implements ports.ConfigLoader using a YAML file.
type FileLoader struct{}

// NewLoader creates a FileLoader.
func NewLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads settings from path, fills defaults for anything unset, and
// validates the result. A missing file yields pure defaults.
func (l *FileLoader) Load(path string) (*domain.Settings, error) {
	settings := Defaults()
	data, err := os.ReadFile(path) //nolint:gosec // Path is provided by the user
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.Wrap(err, "failed to read config file")
		}
	} else {
		var dto settingsDTO
		if err := yaml.Unmarshal(data, &dto); err != nil {
			return nil, zerr.Wrap(err, "failed to parse config file")
		}
		dto.apply(settings)
	}
	if err := settings.Validate(); err != nil {
		return nil, zerr.Wrap(err, "invalid configuration")
	}
	return settings, nil
}

// Defaults returns the settings used when no config file or flag overrides
// them. The platform is read from the runtime here, at the edge, and
// threaded explicitly everywhere else.
func Defaults() *domain.Settings {
	parallelism := runtime.NumCPU()
	if parallelism > maxParallelism {
		parallelism = maxParallelism
	}
	root := filepath.Join(os.TempDir(), "comet")
	if home, err := os.UserHomeDir(); err == nil {
		root = filepath.Join(home, ".comet")
	}
	return &domain.Settings{
		Root:          root,
		SnapshotURL:   "https://dl.trai.ch/comet/components.json",
		Platform:      domain.Platform{OS: runtime.GOOS, Arch: runtime.GOARCH},
		Parallelism:   parallelism,
		FetchAttempts: 3,
	}
}
