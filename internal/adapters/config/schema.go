package config

import "go.trai.ch/comet/internal/core/domain"

// settingsDTO represents the structure of the comet.yaml configuration file.
// Zero values mean "not set" and leave the default in place.
type settingsDTO struct {
	Root        string `yaml:"root"`
	SnapshotURL string `yaml:"snapshotUrl"`
	Platform    struct {
		OS   string `yaml:"os"`
		Arch string `yaml:"arch"`
	} `yaml:"platform"`
	Parallelism   int   `yaml:"parallelism"`
	Prune         *bool `yaml:"prune"`
	FetchAttempts int   `yaml:"fetchAttempts"`
}

func (d settingsDTO) apply(s *domain.Settings) {
	if d.Root != "" {
		s.Root = d.Root
	}
	if d.SnapshotURL != "" {
		s.SnapshotURL = d.SnapshotURL
	}
	if d.Platform.OS != "" {
		s.Platform.OS = d.Platform.OS
	}
	if d.Platform.Arch != "" {
		s.Platform.Arch = d.Platform.Arch
	}
	if d.Parallelism > 0 {
		s.Parallelism = d.Parallelism
	}
	if d.Prune != nil {
		s.Prune = *d.Prune
	}
	if d.FetchAttempts > 0 {
		s.FetchAttempts = d.FetchAttempts
	}
}
