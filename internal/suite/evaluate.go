package suite

import (
	"fmt"
	"strings"

	"github.com/lankatools/singlish-e2e/internal/errs"
	"github.com/lankatools/singlish-e2e/internal/textnorm"
)

// Attachment is a named diagnostic artifact blob.
type Attachment struct {
	Name string
	Body []byte
}

// Outcome is the terminal record for one executed case. Created once,
// reported to the test harness, never mutated afterwards.
type Outcome struct {
	CaseID string
	Passed bool

	// Actual is the normalized text that was evaluated, or the last text
	// observed before a timeout.
	Actual string

	// Detail is a human-readable account of what was expected versus what
	// was observed, sufficient to debug without re-running.
	Detail string

	// FailureCode classifies a failure; empty on pass.
	FailureCode errs.Code

	Quarantined bool

	// Attachments carries the per-run diagnostics (transcript, screenshot),
	// produced on every run regardless of outcome.
	Attachments []Attachment
}

// Evaluate decides pass or fail for a case given the polled text. Both the
// actual text and every expected value pass through normalization, so
// comparison is whitespace- and composition-insensitive on both sides.
func Evaluate(c Case, actual string) Outcome {
	actual = textnorm.Normalize(actual)
	out := Outcome{
		CaseID:      c.ID,
		Actual:      actual,
		Quarantined: c.Quarantine,
	}

	kind, err := c.Kind()
	if err != nil {
		out.FailureCode = errs.InvalidFixture
		out.Detail = err.Error()
		return out
	}

	switch kind {
	case Equals:
		normalized := make([]string, len(c.Equals))
		for i, want := range c.Equals {
			normalized[i] = textnorm.Normalize(want)
			if normalized[i] == actual {
				out.Passed = true
				return out
			}
		}
		out.Detail = fmt.Sprintf("expected exactly one of %s; observed %q",
			quoteAll(normalized), actual)

	case Contains:
		normalized := make([]string, len(c.Contains))
		for i, needle := range c.Contains {
			normalized[i] = textnorm.Normalize(needle)
			// An empty needle is contained in everything. Validate rejects
			// these in YAML tables; ad-hoc cases built in code land here.
			if normalized[i] == "" {
				out.FailureCode = errs.InvalidFixture
				out.Detail = fmt.Sprintf("contains needle %q normalizes to nothing and would match anything", needle)
				return out
			}
			if strings.Contains(actual, normalized[i]) {
				out.Passed = true
				return out
			}
		}
		out.Detail = fmt.Sprintf("expected a substring from %s; observed %q",
			quoteAll(normalized), actual)

	case Regex:
		re, err := CompilePattern(c.Regex)
		if err != nil {
			out.FailureCode = errs.InvalidFixture
			out.Detail = fmt.Sprintf("bad regex %q: %v", c.Regex, err)
			return out
		}
		if re.MatchString(actual) {
			out.Passed = true
			return out
		}
		out.Detail = fmt.Sprintf("expected a match for %s; observed %q", re, actual)
	}

	out.FailureCode = errs.AssertionMismatch
	return out
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
