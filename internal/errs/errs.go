// Package errs defines the coded failure vocabulary for a test case run.
// Codes separate structural breakage (a selector no longer resolves, setup
// never completed) from timing-shaped failures (a poll deadline elapsed) so
// aggregate reporting can tell flakiness from genuine breakage.
package errs

import "errors"

// Code classifies a case failure.
type Code string

const (
	// InvalidFixture means a test-case table failed validation at load.
	InvalidFixture Code = "invalid_fixture"
	// Setup means the case aborted before any polling began (session
	// launch, navigation).
	Setup Code = "setup"
	// SelectorNotFound means no locator candidate resolved to a visible
	// element. Structural, never retried.
	SelectorNotFound Code = "selector_not_found"
	// Timeout means the readiness predicate never held within the deadline.
	Timeout Code = "timeout"
	// AssertionMismatch means output arrived but did not match the case's
	// expectation.
	AssertionMismatch Code = "assertion_mismatch"
	// Internal is the fallback for uncoded errors.
	Internal Code = "internal"
)

// Error is a coded case failure.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// IsBreakage reports whether the failure is structural rather than
// timing-shaped: bad fixtures, failed setup, and unresolvable selectors
// point at the suite or the site, while timeouts point at the service being
// slow (or down) and show up in aggregate as flakiness.
func IsBreakage(err error) bool {
	switch CodeOf(err) {
	case InvalidFixture, Setup, SelectorNotFound:
		return true
	}
	return false
}
