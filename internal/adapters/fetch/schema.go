package fetch

import (
	"encoding/json"

	"go.trai.ch/comet/internal/core/domain"
	"go.trai.ch/zerr"
)

// snapshotDTO mirrors the snapshot document's wire format. The document is
// untrusted; everything is validated before a domain.Snapshot is built.
type snapshotDTO struct {
	FormatVersion int            `json:"format_version"`
	Revision      string         `json:"revision"`
	Components    []componentDTO `json:"components"`
}

type componentDTO struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Version      string        `json:"version"`
	Dependencies []string      `json:"dependencies,omitempty"`
	Platforms    []platformDTO `json:"platforms,omitempty"`
	Files        []fileDTO     `json:"files,omitempty"`
	Hidden       bool          `json:"hidden,omitempty"`
	Protected    bool          `json:"protected,omitempty"`
}

type platformDTO struct {
	OS   string `json:"os,omitempty"`
	Arch string `json:"arch,omitempty"`
}

type fileDTO struct {
	Path     string `json:"path"`
	Source   string `json:"source"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// parseSnapshot decodes and validates the raw snapshot document.
func parseSnapshot(data []byte) (*domain.Snapshot, error) {
	var dto snapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to decode snapshot document")
	}
	components := make([]domain.Component, 0, len(dto.Components))
	for _, c := range dto.Components {
		comp, err := c.toDomain()
		if err != nil {
			return nil, err
		}
		components = append(components, comp)
	}
	return domain.NewSnapshot(dto.FormatVersion, dto.Revision, components)
}

func (c componentDTO) toDomain() (domain.Component, error) {
	if c.Version == "" {
		err := zerr.With(domain.ErrInvalidSnapshot, "reason", "component without version")
		return domain.Component{}, zerr.With(err, "component", c.ID)
	}
	files := make([]domain.FileSpec, 0, len(c.Files))
	for _, f := range c.Files {
		if f.Path == "" || f.Source == "" || f.Checksum == "" || f.Size < 0 {
			err := zerr.With(domain.ErrInvalidSnapshot, "reason", "malformed file entry")
			err = zerr.With(err, "component", c.ID)
			return domain.Component{}, zerr.With(err, "path", f.Path)
		}
		files = append(files, domain.FileSpec{
			Path:     f.Path,
			Source:   f.Source,
			Size:     f.Size,
			Checksum: f.Checksum,
		})
	}
	platforms := make([]domain.Platform, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		platforms = append(platforms, domain.Platform{OS: p.OS, Arch: p.Arch})
	}
	return domain.Component{
		ID:           c.ID,
		Name:         c.Name,
		Version:      domain.Version(c.Version),
		Dependencies: c.Dependencies,
		Platforms:    platforms,
		Files:        files,
		Hidden:       c.Hidden,
		Protected:    c.Protected,
	}, nil
}
