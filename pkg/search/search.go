// Package search narrows a note collection for display. Every function here
// is pure: inputs are never mutated and results are fresh slices.
package search

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/inkwell/pkg/core"
)

// Filter returns the notes whose title or content contains query, ignoring
// case, in their original order. An empty query returns a copy of notes.
func Filter(notes []core.Note, query string) []core.Note {
	out := make([]core.Note, 0, len(notes))
	if query == "" {
		return append(out, notes...)
	}
	q := strings.ToLower(query)
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// MatchTitle returns the notes whose title matches the glob pattern, e.g.
// "work/**" or "*.md". Titles use "/" as the separator.
func MatchTitle(notes []core.Note, pattern string) ([]core.Note, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad title pattern %q", core.ErrInvalidInput, pattern)
	}
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		ok, err := doublestar.Match(pattern, n.Title)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", pattern, err)
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Source provides a snapshot of notes. *collection.Store satisfies it.
type Source interface {
	Notes() []core.Note
}

// View derives filtered results from a live source. It holds no state of
// its own, so results always reflect the source at call time.
type View struct {
	source Source
}

// NewView returns a view over source.
func NewView(source Source) *View {
	return &View{source: source}
}

// Results filters the current snapshot by query.
func (v *View) Results(query string) []core.Note {
	return Filter(v.source.Notes(), query)
}

// Match filters the current snapshot by title glob, then by query.
func (v *View) Match(pattern, query string) ([]core.Note, error) {
	notes := v.source.Notes()
	if pattern != "" {
		var err error
		if notes, err = MatchTitle(notes, pattern); err != nil {
			return nil, err
		}
	}
	return Filter(notes, query), nil
}
