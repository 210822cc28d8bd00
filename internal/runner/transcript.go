package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/lankatools/singlish-e2e/internal/suite"
)

// transcript accumulates the human-readable record attached to every run:
// what was typed, what was expected, what was observed, and each step in
// between with timestamps.
type transcript struct {
	b     strings.Builder
	start time.Time
}

func newTranscript(c suite.Case) *transcript {
	tr := &transcript{start: time.Now()}
	fmt.Fprintf(&tr.b, "case: %s\n", c.ID)
	fmt.Fprintf(&tr.b, "input: %q\n", c.Input)
	switch kind, _ := c.Kind(); kind {
	case suite.Equals:
		fmt.Fprintf(&tr.b, "expect: equals any of %q\n", c.Equals)
	case suite.Contains:
		fmt.Fprintf(&tr.b, "expect: contains any of %q\n", c.Contains)
	case suite.Regex:
		fmt.Fprintf(&tr.b, "expect: matches %q\n", c.Regex)
	}
	if c.Wait != "" {
		fmt.Fprintf(&tr.b, "wait: %s\n", c.Wait)
	}
	if c.Quarantine {
		fmt.Fprintf(&tr.b, "quarantine: true (%s)\n", c.Note)
	}
	tr.b.WriteString("\n")
	return tr
}

func (tr *transcript) step(format string, args ...any) {
	fmt.Fprintf(&tr.b, "[%8s] ", time.Since(tr.start).Round(time.Millisecond))
	fmt.Fprintf(&tr.b, format, args...)
	tr.b.WriteString("\n")
}

func (tr *transcript) result(o suite.Outcome) {
	tr.b.WriteString("\n")
	fmt.Fprintf(&tr.b, "actual: %q\n", o.Actual)
	if o.Passed {
		tr.b.WriteString("result: PASS\n")
		return
	}
	fmt.Fprintf(&tr.b, "result: FAIL (%s)\n", o.FailureCode)
	if o.Detail != "" {
		fmt.Fprintf(&tr.b, "detail: %s\n", o.Detail)
	}
}

func (tr *transcript) bytes() []byte {
	return []byte(tr.b.String())
}
