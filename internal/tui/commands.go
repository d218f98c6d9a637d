// Package tui provides a terminal user interface for visualizing component
// operations.
package tui

import (
	"github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// Source is a stream of progrock updates. ok is false once the stream ends.
type Source interface {
	Read() (*progrock.StatusUpdate, bool)
}

// WaitForUpdate returns a Bubble Tea command that reads the next update from
// the source. It returns MsgUpdate on success or MsgStreamEnded when the
// stream is done.
func WaitForUpdate(source Source) tea.Cmd {
	return func() tea.Msg {
		update, ok := source.Read()
		if !ok {
			return MsgStreamEnded{}
		}
		return MsgUpdate{Update: update}
	}
}
