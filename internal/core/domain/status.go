package domain

import "sort"

// ComponentState classifies a component's local status against the snapshot.
type ComponentState string

const (
	// StateNotInstalled means the snapshot offers the component and it is
	// absent locally.
	StateNotInstalled ComponentState = "Not Installed"
	// StateInstalled means the installed version matches the snapshot's.
	StateInstalled ComponentState = "Installed"
	// StateUpdateAvailable means the snapshot offers a newer version.
	StateUpdateAvailable ComponentState = "Update Available"
	// StateNotInSnapshot means the component is installed locally but the
	// snapshot no longer offers it.
	StateNotInSnapshot ComponentState = "No Longer Available"
)

// ComponentStatus is one row of the listing: a component's identity plus its
// local state relative to the snapshot.
type ComponentStatus struct {
	ID        string
	Name      string
	State     ComponentState
	Installed Version
	Latest    Version
	Size      int64
}

// ListStatuses computes the status of every listable component: everything
// the snapshot offers on this platform (hidden components only when
// installed) plus installed components the snapshot dropped. Rows are sorted
// by id.
func ListStatuses(graph *Graph, installed map[string]Version) []ComponentStatus {
	rows := make([]ComponentStatus, 0, graph.Len())
	for _, id := range graph.IDs() {
		c, _ := graph.Component(id)
		current, isInstalled := installed[id]
		if c.Hidden && !isInstalled {
			continue
		}
		row := ComponentStatus{
			ID:     id,
			Name:   c.Name,
			Latest: c.Version,
			Size:   c.TotalSize(),
		}
		switch {
		case !isInstalled:
			row.State = StateNotInstalled
		case c.Version.Newer(current):
			row.State = StateUpdateAvailable
			row.Installed = current
		default:
			row.State = StateInstalled
			row.Installed = current
		}
		rows = append(rows, row)
	}
	for id, current := range installed {
		if !graph.Has(id) {
			rows = append(rows, ComponentStatus{
				ID:        id,
				State:     StateNotInSnapshot,
				Installed: current,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}
