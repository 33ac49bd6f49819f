// Package filematch compiles glob patterns into a single matcher over normalized,
// root-relative paths.
//
// Glob semantics:
//   - '*' matches any sequence of non-separator characters.
//   - '?' matches any single non-separator character.
//   - '[abc]' and '[a-z]' match one character from the class.
//   - '**' matches any number of path segments, including none (doublestar engine).
//   - '{abc,xyz}' matches either alternative.
package filematch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/perf"
)

// Engine names a glob implementation.
type Engine string

const (
	// EngineDoublestar uses github.com/bmatcuk/doublestar. "a/**/b" also matches "a/b".
	EngineDoublestar Engine = "doublestar"
	// EngineGobwas uses github.com/gobwas/glob compiled with '/' as separator.
	// "a/**/b" requires at least one segment between "a" and "b".
	EngineGobwas Engine = "gobwas"
)

// ParseEngine validates an engine name. Empty selects EngineDoublestar.
func ParseEngine(name string) (Engine, error) {
	switch Engine(name) {
	case "", EngineDoublestar:
		return EngineDoublestar, nil
	case EngineGobwas:
		return EngineGobwas, nil
	default:
		return "", fmt.Errorf("%w: %q (expected %q or %q)", errUtils.ErrUnknownMatchEngine, name, EngineDoublestar, EngineGobwas)
	}
}

// Matcher reports whether a normalized relative path is selected.
type Matcher interface {
	Match(path string) bool
}

type pattern interface {
	match(path string) bool
}

type doublestarPattern string

func (p doublestarPattern) match(path string) bool {
	// The pattern was validated at compile time, so Match cannot report ErrBadPattern.
	ok, _ := doublestar.Match(string(p), path)
	return ok
}

type gobwasPattern struct {
	g glob.Glob
}

func (p gobwasPattern) match(path string) bool {
	return p.g.Match(path)
}

// CombinedMatcher matches a path when any of its patterns does.
type CombinedMatcher struct {
	engine   Engine
	patterns []string
	compiled []pattern
}

// Option configures NewCombinedMatcher.
type Option func(*CombinedMatcher)

// WithEngine selects the glob implementation.
func WithEngine(e Engine) Option {
	return func(m *CombinedMatcher) {
		m.engine = e
	}
}

// NewCombinedMatcher compiles every pattern, failing on the first one that is not a valid
// glob. The pattern list must not be empty.
func NewCombinedMatcher(patterns []string, opts ...Option) (*CombinedMatcher, error) {
	defer perf.Track(nil, "filematch.NewCombinedMatcher")()

	if len(patterns) == 0 {
		return nil, errUtils.ErrNoPatterns
	}

	m := &CombinedMatcher{engine: EngineDoublestar}
	for _, opt := range opts {
		opt(m)
	}
	if _, err := ParseEngine(string(m.engine)); err != nil {
		return nil, err
	}

	m.patterns = append([]string(nil), patterns...)
	m.compiled = make([]pattern, 0, len(patterns))
	for i, raw := range patterns {
		p, err := m.compile(raw)
		if err != nil {
			return nil, &errUtils.PatternSyntaxError{Pattern: raw, Index: i, Err: err}
		}
		m.compiled = append(m.compiled, p)
	}
	return m, nil
}

func (m *CombinedMatcher) compile(raw string) (pattern, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	expr := cleanPattern(raw)

	switch m.engine {
	case EngineGobwas:
		g, err := glob.Compile(expr, '/')
		if err != nil {
			return nil, err
		}
		return gobwasPattern{g: g}, nil
	default:
		if !doublestar.ValidatePattern(expr) {
			return nil, doublestar.ErrBadPattern
		}
		return doublestarPattern(expr), nil
	}
}

// cleanPattern uses '/' separators and drops leading "./" segments, which never appear
// in normalized candidates.
func cleanPattern(raw string) string {
	expr := filepath.ToSlash(raw)
	for strings.HasPrefix(expr, "./") {
		expr = strings.TrimLeft(expr[2:], "/")
	}
	return expr
}

// Match reports whether path, normalized first, matches at least one pattern.
func (m *CombinedMatcher) Match(path string) bool {
	candidate := NormalizePath(path)
	for _, p := range m.compiled {
		if p.match(candidate) {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the source patterns in their original order.
func (m *CombinedMatcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Engine returns the engine the patterns were compiled with.
func (m *CombinedMatcher) Engine() Engine {
	return m.engine
}
