package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed dotted release number such as 2.8.1 or 1.7.4.3.
// Segments are compared numerically, left to right, so 1.10.0 sorts after 1.9.9.
type Version struct {
	segments []int
}

// ParseVersion parses a dot-separated sequence of non-negative integers.
func ParseVersion(text string) (Version, error) {
	if text == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrMalformedVersion)
	}

	parts := strings.Split(text, ".")
	segments := make([]int, 0, len(parts))
	for _, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, text)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %w", ErrMalformedVersion, text, err)
		}
		segments = append(segments, n)
	}

	return Version{segments: segments}, nil
}

// MustParseVersion is like ParseVersion but panics on malformed input.
// Intended for static configuration and tests.
func MustParseVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Segments returns a copy of the numeric components.
func (v Version) Segments() []int {
	out := make([]int, len(v.segments))
	copy(out, v.segments)
	return out
}

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool { return len(v.segments) == 0 }

// Compare returns -1, 0 or +1. Missing trailing segments count as zero, so
// 1.2 and 1.2.0 compare equal, matching conventional release numbering.
func (v Version) Compare(other Version) int {
	n := max(len(v.segments), len(other.segments))
	for i := range n {
		a, b := v.segment(i), other.segment(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

func (v Version) segment(i int) int {
	if i < len(v.segments) {
		return v.segments[i]
	}
	return 0
}

func (v Version) Equal(other Version) bool       { return v.Compare(other) == 0 }
func (v Version) LessThan(other Version) bool    { return v.Compare(other) < 0 }
func (v Version) GreaterThan(other Version) bool { return v.Compare(other) > 0 }

// String formats the version without leading zeros.
func (v Version) String() string {
	parts := make([]string, len(v.segments))
	for i, s := range v.segments {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ".")
}
