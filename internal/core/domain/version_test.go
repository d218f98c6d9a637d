package domain_test

import (
	"testing"

	"go.trai.ch/comet/internal/core/domain"
)

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Version
		want int
	}{
		{"equal", "1.2.3", "1.2.3", 0},
		{"numeric segments", "2024.1.9", "2024.1.10", -1},
		{"leading zeros", "1.02", "1.2", 0},
		{"longer wins on shared prefix", "1.2", "1.2.1", -1},
		{"non-numeric lexicographic", "beta", "rc", -1},
		{"mixed segment falls back to lexicographic", "1.a", "1.10", 1},
		{"major bump", "3.0.0", "2.9.9", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Compare(tt.a); got != -tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestVersion_Newer(t *testing.T) {
	if !domain.Version("1.10").Newer("1.9") {
		t.Error("expected 1.10 to be newer than 1.9")
	}
	if domain.Version("1.9").Newer("1.9") {
		t.Error("expected equal versions not to be newer")
	}
}

func TestVersion_Less(t *testing.T) {
	if !domain.Version("1.9").Less("1.10") {
		t.Error("expected 1.9 to be less than 1.10")
	}
	if domain.Version("1.9").Less("1.9") {
		t.Error("expected equal versions not to be less")
	}
}
