package ports

// Workspace manages the component directories under the install root:
// staging areas for in-flight downloads and the atomic swap into place.
//
//go:generate go run go.uber.org/mock/mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// ComponentDir returns the final install directory for a component.
	ComponentDir(id string) string

	// HasComponent reports whether a component's directory exists on disk.
	HasComponent(id string) (bool, error)

	// Stage allocates a fresh staging directory for a component.
	Stage(id string) (string, error)

	// CommitSwap atomically replaces the component's install directory with
	// the staged one. The old version, if any, is retired first and restored
	// on failure.
	CommitSwap(id, stagingDir string) error

	// DiscardStaging removes an abandoned staging directory.
	DiscardStaging(stagingDir string) error

	// Remove deletes a component's installed files.
	Remove(id string) error

	// Sweep discards every leftover staging and retired directory.
	Sweep() error
}
