package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/comet/internal/core/domain"
)

func TestNewSnapshot_UnsupportedFormat(t *testing.T) {
	_, err := domain.NewSnapshot(domain.SupportedFormatVersion+1, "rev-9", nil)
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNewSnapshot_DuplicateID(t *testing.T) {
	_, err := domain.NewSnapshot(1, "rev-1", []domain.Component{
		{ID: "base"},
		{ID: "base"},
	})
	if !errors.Is(err, domain.ErrDuplicateComponent) {
		t.Fatalf("expected ErrDuplicateComponent, got %v", err)
	}
}

func TestNewSnapshot_UnsafeID(t *testing.T) {
	for _, id := range []string{"", "../escape", ".hidden", "a/b", `a\b`} {
		_, err := domain.NewSnapshot(1, "rev-1", []domain.Component{{ID: id}})
		if !errors.Is(err, domain.ErrInvalidSnapshot) {
			t.Errorf("id %q: expected ErrInvalidSnapshot, got %v", id, err)
		}
	}
}

func TestNewSnapshot_UnresolvedDependency(t *testing.T) {
	_, err := domain.NewSnapshot(1, "rev-1", []domain.Component{
		{ID: "tool", Dependencies: []string{"ghost"}},
	})
	if !errors.Is(err, domain.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestComponent_SupportsPlatform(t *testing.T) {
	tests := []struct {
		name      string
		platforms []domain.Platform
		want      bool
	}{
		{"no filter matches everything", nil, true},
		{"exact match", []domain.Platform{{OS: "linux", Arch: "amd64"}}, true},
		{"os wildcard", []domain.Platform{{Arch: "amd64"}}, true},
		{"arch wildcard", []domain.Platform{{OS: "linux"}}, true},
		{"wrong os", []domain.Platform{{OS: "darwin", Arch: "amd64"}}, false},
		{"wrong arch", []domain.Platform{{OS: "linux", Arch: "arm64"}}, false},
		{"any filter matching is enough", []domain.Platform{{OS: "darwin"}, {OS: "linux"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.Component{ID: "c", Platforms: tt.platforms}
			if got := c.SupportsPlatform(linuxAmd64); got != tt.want {
				t.Errorf("SupportsPlatform(%v) = %v, want %v", linuxAmd64, got, tt.want)
			}
		})
	}
}

func TestComponent_TotalSize(t *testing.T) {
	c := domain.Component{Files: []domain.FileSpec{
		{Path: "bin/a", Size: 100},
		{Path: "lib/b", Size: 250},
	}}
	if got := c.TotalSize(); got != 350 {
		t.Errorf("TotalSize() = %d, want 350", got)
	}
}
