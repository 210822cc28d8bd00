// Package textnorm canonicalizes rendered DOM text before comparison.
//
// Text copied out of a live page can differ from a fixture literal in ways
// invisible to a reader: non-NFC composition of combining marks, zero-width
// joiners left over from ligature shaping, and whitespace runs introduced by
// element layout. Normalize collapses all of those so two texts compare
// equal exactly when a human would call them the same.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical form of s: invisible format characters
// removed, every whitespace run (including line breaks) collapsed to a
// single space, leading/trailing space trimmed, then Unicode NFC.
//
// Composition runs after stripping so a joiner wedged between a base letter
// and its combining mark no longer blocks it; composing first would leave a
// decomposed sequence behind once the joiner is dropped.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	wrote := false
	for _, r := range s {
		switch {
		case invisible(r):
			// Dropped entirely. A ZWJ between two spaces must not widen
			// the run, so it does not count as a separator either.
		case unicode.IsSpace(r):
			pendingSpace = true
		default:
			if pendingSpace && wrote {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			wrote = true
		}
	}
	return norm.NFC.String(b.String())
}

// Equal reports whether a and b are the same text after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// invisible reports whether r renders as nothing. The Cf format category
// covers every offender seen in practice: zero-width space/joiner/non-joiner
// (U+200B..U+200D), the word joiner (U+2060), directionality marks, and a
// stray BOM (U+FEFF) left by copy-paste.
func invisible(r rune) bool {
	return unicode.Is(unicode.Cf, r)
}
