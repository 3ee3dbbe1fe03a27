// Package pattern selects document paths with glob patterns.
//
// Patterns are matched against the rendered form of a path, e.g.
// "settings.theme" or "items[3].name". A '*' matches any run of
// characters, including separators, and '?' matches exactly one:
//
//	m := pattern.New("layout", "panels[*]")
//	acc := accumulator.New(accumulator.WithFlatten(m.Predicate()))
package pattern

import (
	"strings"

	"github.com/tidwall/match"

	"github.com/dshills/rewind/internal/change"
)

// Matcher reports whether a path matches any of a set of glob patterns.
// The zero value matches nothing.
type Matcher struct {
	patterns []string
}

// New creates a matcher from patterns. Blank patterns are ignored.
func New(patterns ...string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			m.patterns = append(m.patterns, p)
		}
	}
	return m
}

// Patterns returns the patterns of the matcher.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Match reports whether path matches any pattern.
func (m *Matcher) Match(path change.Path) bool {
	if m.Empty() {
		return false
	}
	return m.MatchString(path.String())
}

// MatchString reports whether a rendered path matches any pattern.
func (m *Matcher) MatchString(rendered string) bool {
	if m.Empty() {
		return false
	}
	for _, p := range m.patterns {
		if match.Match(rendered, p) {
			return true
		}
	}
	return false
}

// Predicate returns a function reporting whether key under parent
// matches. It returns nil for an empty matcher so callers can skip the
// check entirely.
func (m *Matcher) Predicate() func(parent change.Path, key any) bool {
	if m.Empty() {
		return nil
	}
	return func(parent change.Path, key any) bool {
		return m.Match(parent.Append(key))
	}
}
