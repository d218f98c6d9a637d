// Package domain contains the core domain models and algorithms for component management.
package domain

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// SupportedFormatVersion is the newest snapshot format this build understands.
// Snapshots declaring a higher version are rejected outright instead of being
// misinterpreted.
const SupportedFormatVersion = 1

// Platform identifies an operating system and architecture pair.
// A zero field acts as a wildcard when matching component filters.
type Platform struct {
	OS   string
	Arch string
}

// String returns the platform in "os/arch" notation.
func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// FileSpec describes a single file belonging to a component.
type FileSpec struct {
	// Path is the file's location relative to the component's install directory.
	Path string
	// Source is the URL the file's content is fetched from.
	Source string
	// Size is the expected size in bytes.
	Size int64
	// Checksum is the xxhash64 hex digest of the file's content.
	Checksum string
}

// Component is a named, independently installable unit of software.
// Its identity is stable across snapshot revisions; its version is not.
type Component struct {
	ID           string
	Name         string
	Version      Version
	Dependencies []string
	// Platforms restricts which hosts may install the component.
	// An empty list means every platform is eligible.
	Platforms []Platform
	Files     []FileSpec
	// Hidden components are installable only as transitive dependencies,
	// never by direct request.
	Hidden bool
	// Protected components cannot be removed without an explicit override.
	Protected bool
}

// SupportsPlatform reports whether the component may be installed on p.
func (c Component) SupportsPlatform(p Platform) bool {
	if len(c.Platforms) == 0 {
		return true
	}
	for _, f := range c.Platforms {
		if (f.OS == "" || f.OS == p.OS) && (f.Arch == "" || f.Arch == p.Arch) {
			return true
		}
	}
	return false
}

// TotalSize returns the declared size of all of the component's files.
func (c Component) TotalSize() int64 {
	var n int64
	for _, f := range c.Files {
		n += f.Size
	}
	return n
}

// Snapshot is the remote catalog of available components. It is immutable
// after construction and rebuilt fresh for every resolution request.
type Snapshot struct {
	FormatVersion int
	// Revision identifies the snapshot's freshness. Display only; it plays
	// no part in resolution.
	Revision   string
	components map[string]Component
}

// NewSnapshot validates and builds a Snapshot from a component list.
// It rejects unsupported format versions, duplicate ids, malformed ids, and
// dependencies that do not resolve within the snapshot itself.
func NewSnapshot(formatVersion int, revision string, components []Component) (*Snapshot, error) {
	if formatVersion > SupportedFormatVersion {
		err := zerr.With(ErrUnsupportedFormat, "format_version", formatVersion)
		return nil, zerr.With(err, "supported", SupportedFormatVersion)
	}
	byID := make(map[string]Component, len(components))
	for _, c := range components {
		if err := validateComponentID(c.ID); err != nil {
			return nil, err
		}
		if _, exists := byID[c.ID]; exists {
			return nil, zerr.With(ErrDuplicateComponent, "component", c.ID)
		}
		byID[c.ID] = c
	}
	var unresolved []string
	for _, c := range components {
		for _, dep := range c.Dependencies {
			if _, ok := byID[dep]; !ok {
				unresolved = append(unresolved, c.ID+" -> "+dep)
			}
		}
	}
	if len(unresolved) > 0 {
		sort.Strings(unresolved)
		return nil, zerr.With(ErrInvalidSnapshot, "unresolved_dependencies", strings.Join(unresolved, ", "))
	}
	return &Snapshot{
		FormatVersion: formatVersion,
		Revision:      revision,
		components:    byID,
	}, nil
}

// Component returns the component with the given id, if present.
func (s *Snapshot) Component(id string) (Component, bool) {
	c, ok := s.components[id]
	return c, ok
}

// Has reports whether the snapshot contains the given id.
func (s *Snapshot) Has(id string) bool {
	_, ok := s.components[id]
	return ok
}

// IDs returns all component ids in lexicographic order.
func (s *Snapshot) IDs() []string {
	ids := make([]string, 0, len(s.components))
	for id := range s.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of components in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.components)
}

// validateComponentID rejects ids that could escape the install root when
// used as a directory name.
func validateComponentID(id string) error {
	if id == "" {
		return zerr.With(ErrInvalidSnapshot, "reason", "empty component id")
	}
	if strings.HasPrefix(id, ".") || strings.ContainsAny(id, "/\\") {
		err := zerr.With(ErrInvalidSnapshot, "reason", "component id is not a safe directory name")
		return zerr.With(err, "component", id)
	}
	return nil
}
