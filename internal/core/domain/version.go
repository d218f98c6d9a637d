package domain

import "strings"

// Version is an opaque, monotonically comparable component version.
// Dot-separated segments are compared numerically when both sides are
// numeric and lexicographically otherwise, so "2024.1.9" < "2024.1.10"
// and "beta" < "rc".
type Version string

// Compare returns -1, 0, or 1 as v is older than, equal to, or newer than o.
func (v Version) Compare(o Version) int {
	vs := strings.Split(string(v), ".")
	os := strings.Split(string(o), ".")
	for i := 0; i < len(vs) && i < len(os); i++ {
		if c := compareSegment(vs[i], os[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(vs) < len(os):
		return -1
	case len(vs) > len(os):
		return 1
	}
	return 0
}

// Newer reports whether v is strictly newer than o.
func (v Version) Newer(o Version) bool {
	return v.Compare(o) > 0
}

// Less reports whether v is strictly older than o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

func compareSegment(a, b string) int {
	if isNumeric(a) && isNumeric(b) {
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		switch {
		case len(a) < len(b):
			return -1
		case len(a) > len(b):
			return 1
		}
	}
	return strings.Compare(a, b)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
