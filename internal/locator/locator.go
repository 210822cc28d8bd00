// Package locator finds UI elements through an ordered list of candidate
// strategies. A candidate is data, not control flow: resolution walks the
// list and takes the first currently-visible match, so a suite survives UI
// redesigns by appending fallbacks instead of editing call sites.
package locator

import (
	"context"
	"fmt"
	"strings"
)

// Kind tags a candidate strategy.
type Kind string

const (
	// Placeholder matches form controls by placeholder text.
	Placeholder Kind = "placeholder"
	// Role matches by ARIA role, optionally narrowed by accessible name.
	Role Kind = "role"
	// TestID matches by data-testid attribute.
	TestID Kind = "testid"
	// Text matches by visible text content.
	Text Kind = "text"
	// CSS matches by CSS selector; the structural fallback of last resort.
	CSS Kind = "css"
)

// Candidate describes one way to find an element, independent of the
// automation library underneath.
type Candidate struct {
	Kind  Kind
	Value string
	// Name narrows Role candidates by accessible name. Ignored otherwise.
	Name string
}

func (c Candidate) String() string {
	if c.Kind == Role && c.Name != "" {
		return fmt.Sprintf("%s=%q[name=%q]", c.Kind, c.Value, c.Name)
	}
	return fmt.Sprintf("%s=%q", c.Kind, c.Value)
}

// Element is a handle to a located element, exposing exactly the primitives
// the framework consumes. Implementations wrap a concrete automation
// library; see the driver package.
type Element interface {
	Visible(ctx context.Context) (bool, error)
	Fill(ctx context.Context, text string) error
	// Type sends text as a keystroke sequence, firing per-key events.
	Type(ctx context.Context, text string) error
	Click(ctx context.Context) error
	Text(ctx context.Context) (string, error)
}

// Finder queries the current DOM snapshot for a candidate's matches, in
// document order. Zero matches is not an error.
type Finder interface {
	Find(ctx context.Context, c Candidate) ([]Element, error)
}

// NotFoundError reports that no candidate resolved to a visible element.
// Attempted preserves every candidate description tried, in order, for
// diagnostics.
type NotFoundError struct {
	Attempted []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no visible element; tried %d candidates: %s",
		len(e.Attempted), strings.Join(e.Attempted, ", "))
}

// Resolve returns the first candidate's first visible match, walking
// candidates in list order. A candidate with zero matches is skipped, as is
// one whose first match is present but hidden: a hidden element is not a
// resolution. If nothing resolves, the error is a *NotFoundError.
func Resolve(ctx context.Context, f Finder, candidates []Candidate) (Element, error) {
	attempted := make([]string, 0, len(candidates))
	for _, c := range candidates {
		attempted = append(attempted, c.String())

		matches, err := f.Find(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("locator: find %s: %w", c, err)
		}
		if len(matches) == 0 {
			continue
		}
		visible, err := matches[0].Visible(ctx)
		if err != nil {
			return nil, fmt.Errorf("locator: visibility of %s: %w", c, err)
		}
		if !visible {
			continue
		}
		return matches[0], nil
	}
	return nil, &NotFoundError{Attempted: attempted}
}
