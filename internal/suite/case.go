// Package suite holds the data-driven test-case tables and decides pass or
// fail for polled output. Tables are YAML; a row carries exactly one
// assertion kind and an optional readiness-predicate override.
package suite

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lankatools/singlish-e2e/internal/errs"
	"github.com/lankatools/singlish-e2e/internal/readiness"
	"github.com/lankatools/singlish-e2e/internal/textnorm"
)

// Assertion names a comparison kind.
type Assertion string

const (
	Equals   Assertion = "equals"
	Contains Assertion = "contains"
	Regex    Assertion = "regex"
)

// Case is one table row. Immutable once loaded; exactly one of Equals,
// Contains, or Regex is set.
type Case struct {
	ID    string `yaml:"id"`
	Input string `yaml:"input"`

	// Equals passes when the normalized actual text exactly matches any
	// member, accommodating legitimate surface-form variation (two accepted
	// spellings of the same word).
	Equals []string `yaml:"equals,omitempty"`
	// Contains passes when any member appears as a substring.
	Contains []string `yaml:"contains,omitempty"`
	// Regex passes when the pattern matches; compiled dot-all (see
	// CompilePattern).
	Regex string `yaml:"regex,omitempty"`

	// Wait names the readiness predicate; empty selects the suite default.
	Wait string `yaml:"wait,omitempty"`

	// Quarantine marks a known-failing target-oracle row: it runs and is
	// reported, but its failure does not fail the suite, and an unexpected
	// pass is surfaced so the row can be promoted.
	Quarantine bool `yaml:"quarantine,omitempty"`

	// Note is free-form context for readers of the table.
	Note string `yaml:"note,omitempty"`
}

// Kind returns the case's single active assertion kind.
func (c *Case) Kind() (Assertion, error) {
	var kinds []Assertion
	if len(c.Equals) > 0 {
		kinds = append(kinds, Equals)
	}
	if len(c.Contains) > 0 {
		kinds = append(kinds, Contains)
	}
	if c.Regex != "" {
		kinds = append(kinds, Regex)
	}
	switch len(kinds) {
	case 1:
		return kinds[0], nil
	case 0:
		return "", fmt.Errorf("case %q has no assertion", c.ID)
	default:
		return "", fmt.Errorf("case %q has %d assertion kinds, want exactly one", c.ID, len(kinds))
	}
}

// CompilePattern compiles a fixture regex with dot-all semantics made
// explicit: unless the pattern already opens with an inline flag group,
// (?s) is prepended so "." spans what used to be line breaks before
// normalization collapsed them.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(pattern, "(?") {
		pattern = "(?s)" + pattern
	}
	return regexp.Compile(pattern)
}

type table struct {
	Cases []Case `yaml:"cases"`
}

// Load reads and validates a fixture table.
func Load(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidFixture, fmt.Sprintf("read fixture table %s", path), err)
	}
	return Parse(raw)
}

// Parse decodes and validates a fixture table from YAML bytes.
func Parse(raw []byte) ([]Case, error) {
	var t table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, errs.Wrap(errs.InvalidFixture, "decode fixture table", err)
	}
	if err := Validate(t.Cases); err != nil {
		return nil, err
	}
	return t.Cases, nil
}

// Validate checks the whole table and reports every issue at once.
func Validate(cases []Case) error {
	var issues []string
	seen := make(map[string]bool, len(cases))

	if len(cases) == 0 {
		issues = append(issues, "table has no cases")
	}
	for i := range cases {
		c := &cases[i]
		if c.ID == "" {
			issues = append(issues, fmt.Sprintf("case %d has no id", i))
			continue
		}
		if seen[c.ID] {
			issues = append(issues, fmt.Sprintf("duplicate case id %q", c.ID))
		}
		seen[c.ID] = true

		if _, err := c.Kind(); err != nil {
			issues = append(issues, err.Error())
		}
		if c.Regex != "" {
			if _, err := CompilePattern(c.Regex); err != nil {
				issues = append(issues, fmt.Sprintf("case %q: bad regex: %v", c.ID, err))
			}
		}
		for _, needle := range c.Contains {
			if textnorm.Normalize(needle) == "" {
				issues = append(issues, fmt.Sprintf("case %q: empty contains needle matches everything", c.ID))
			}
		}
		if _, err := readiness.ByName(c.Wait); err != nil {
			issues = append(issues, fmt.Sprintf("case %q: %v", c.ID, err))
		}
	}

	if len(issues) > 0 {
		return errs.New(errs.InvalidFixture,
			fmt.Sprintf("fixture table invalid:\n  - %s", strings.Join(issues, "\n  - ")))
	}
	return nil
}
