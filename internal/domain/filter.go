package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mrz1836/configrepo/internal/constants"
)

// Filter is an ordered set of glob patterns attached to a material.
// Whether the patterns exclude (blacklist) or include (whitelist) is decided
// by the owning material's invert flag, not by the filter itself.
type Filter struct {
	patterns []string
}

// NewFilter creates a filter from patterns. Blank patterns are dropped.
func NewFilter(patterns ...string) Filter {
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return Filter{}
	}
	return Filter{patterns: kept}
}

// IsEmpty reports whether the filter holds no patterns.
func (f Filter) IsEmpty() bool {
	return len(f.patterns) == 0
}

// Patterns returns a copy of the patterns in declaration order.
func (f Filter) Patterns() []string {
	return slices.Clone(f.patterns)
}

// String joins the patterns with the canonical separator.
func (f Filter) String() string {
	return strings.Join(f.patterns, constants.FilterSeparator)
}

// Equal reports whether both filters hold the same patterns in the same order.
func (f Filter) Equal(other Filter) bool {
	return slices.Equal(f.patterns, other.patterns)
}

// Matches reports whether path matches any pattern.
// Malformed patterns never match.
func (f Filter) Matches(path string) bool {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, p := range f.patterns {
		if ok, err := doublestar.Match(strings.TrimPrefix(p, "/"), path); err == nil && ok {
			return true
		}
	}
	return false
}

// isChangeRelevant applies blacklist or whitelist semantics to a set of changed paths.
func isChangeRelevant(f Filter, invert bool, paths []string) bool {
	if f.IsEmpty() {
		return true
	}
	for _, p := range paths {
		matched := f.Matches(p)
		if invert && matched {
			return true
		}
		if !invert && !matched {
			return true
		}
	}
	return false
}
