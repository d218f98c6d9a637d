package domain_test

import (
	"testing"

	"go.trai.ch/comet/internal/core/domain"
)

func TestListStatuses(t *testing.T) {
	g := mustGraph(t, linuxAmd64,
		domain.Component{ID: "base", Name: "Base", Version: "2.0.0"},
		domain.Component{ID: "tool", Name: "Tool", Version: "3.0.0", Dependencies: []string{"base"}},
		domain.Component{ID: "secret", Name: "Secret", Version: "1.0.0", Hidden: true},
		domain.Component{ID: "shown-secret", Name: "Shown", Version: "1.0.0", Hidden: true},
	)
	installed := map[string]domain.Version{
		"base":         "1.0.0",
		"shown-secret": "1.0.0",
		"legacy":       "0.5.0",
	}

	rows := domain.ListStatuses(g, installed)

	byID := make(map[string]domain.ComponentStatus, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	if _, ok := byID["secret"]; ok {
		t.Error("expected uninstalled hidden component to be omitted")
	}
	if got := byID["shown-secret"].State; got != domain.StateInstalled {
		t.Errorf("expected installed hidden component listed as %q, got %q", domain.StateInstalled, got)
	}
	if got := byID["base"].State; got != domain.StateUpdateAvailable {
		t.Errorf("expected base state %q, got %q", domain.StateUpdateAvailable, got)
	}
	if got := byID["tool"].State; got != domain.StateNotInstalled {
		t.Errorf("expected tool state %q, got %q", domain.StateNotInstalled, got)
	}
	if got := byID["legacy"].State; got != domain.StateNotInSnapshot {
		t.Errorf("expected legacy state %q, got %q", domain.StateNotInSnapshot, got)
	}

	// Rows come back sorted by id
	for i := 1; i < len(rows); i++ {
		if rows[i-1].ID >= rows[i].ID {
			t.Fatalf("rows not sorted: %q before %q", rows[i-1].ID, rows[i].ID)
		}
	}
}
