// Package fsops manages component directories under the install root:
// staging areas, the atomic swap into place, and removal.
package fsops

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.trai.ch/comet/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	internalDirName = ".comet"
	stagingDirName  = "staging"
	trashDirName    = "trash"
)

var _ ports.Workspace = (*Workspace)(nil)

// Workspace implements ports.Workspace. Layout under the install root:
//
//	<root>/<component-id>/...          installed component files
//	<root>/.comet/staging/<id>.<uuid>  in-flight downloads
//	<root>/.comet/trash/<uuid>         retired versions awaiting deletion
type Workspace struct {
	root string
}

// New creates the workspace directories under root.
func New(root string) (*Workspace, error) {
	w := &Workspace{root: root}
	for _, dir := range []string{w.stagingRoot(), w.trashRoot()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, zerr.Wrap(err, "failed to create workspace directory")
		}
	}
	return w, nil
}

// ComponentDir returns the final install directory for a component.
func (w *Workspace) ComponentDir(id string) string {
	return filepath.Join(w.root, id)
}

// HasComponent reports whether the component's directory exists.
func (w *Workspace) HasComponent(id string) (bool, error) {
	info, err := os.Stat(w.ComponentDir(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.Wrap(err, "failed to stat component directory")
	}
	return info.IsDir(), nil
}

// Stage allocates a fresh staging directory for the component.
func (w *Workspace) Stage(id string) (string, error) {
	dir := filepath.Join(w.stagingRoot(), id+"."+uuid.NewString())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", zerr.Wrap(err, "failed to create staging directory")
	}
	return dir, nil
}

// CommitSwap atomically replaces the component's install directory with the
// staged one. Any existing version is retired to the trash first and
// restored if the swap itself fails.
func (w *Workspace) CommitSwap(id, stagingDir string) error {
	dest := w.ComponentDir(id)
	retired := ""
	if _, err := os.Stat(dest); err == nil {
		retired = filepath.Join(w.trashRoot(), uuid.NewString())
		if err := os.Rename(dest, retired); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to retire old component version"), "component", id)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to stat component directory")
	}
	if err := os.Rename(stagingDir, dest); err != nil {
		if retired != "" {
			// Put the old version back rather than leaving nothing installed.
			_ = os.Rename(retired, dest)
		}
		return zerr.With(zerr.Wrap(err, "failed to swap component into place"), "component", id)
	}
	if retired != "" {
		// The swap is durable at this point, old files are best-effort cleanup.
		_ = os.RemoveAll(retired)
	}
	return nil
}

// DiscardStaging removes an abandoned staging directory.
func (w *Workspace) DiscardStaging(stagingDir string) error {
	if err := os.RemoveAll(stagingDir); err != nil {
		return zerr.Wrap(err, "failed to discard staging directory")
	}
	return nil
}

// Remove deletes a component's installed files.
func (w *Workspace) Remove(id string) error {
	if err := os.RemoveAll(w.ComponentDir(id)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove component files"), "component", id)
	}
	return nil
}

// Sweep discards every leftover staging and retired directory.
func (w *Workspace) Sweep() error {
	for _, dir := range []string{w.stagingRoot(), w.trashRoot()} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return zerr.Wrap(err, "failed to read workspace directory")
		}
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
				return zerr.Wrap(err, "failed to sweep workspace directory")
			}
		}
	}
	return nil
}

func (w *Workspace) stagingRoot() string {
	return filepath.Join(w.root, internalDirName, stagingDirName)
}

func (w *Workspace) trashRoot() string {
	return filepath.Join(w.root, internalDirName, trashDirName)
}
