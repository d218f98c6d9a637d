package tui

import "github.com/vito/progrock"

// MsgUpdate wraps the raw status update from progrock.
type MsgUpdate struct {
	Update *progrock.StatusUpdate
}

// MsgStreamEnded is sent when the update stream has ended.
type MsgStreamEnded struct{}
