package errs

import (
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != Internal {
		t.Errorf("CodeOf(nil) = %q, want internal", got)
	}
	if got := CodeOf(errors.New("plain")); got != Internal {
		t.Errorf("CodeOf(plain) = %q, want internal", got)
	}
	if got := CodeOf(New(Timeout, "deadline elapsed")); got != Timeout {
		t.Errorf("CodeOf = %q, want timeout", got)
	}

	wrapped := fmt.Errorf("case tc-1: %w", Wrap(SelectorNotFound, "no visible element", errors.New("root")))
	if got := CodeOf(wrapped); got != SelectorNotFound {
		t.Errorf("CodeOf(wrapped) = %q, want selector_not_found", got)
	}
}

func TestErrorMessagePrecedence(t *testing.T) {
	cause := errors.New("underlying")
	cases := []struct {
		err  error
		want string
	}{
		{New(Setup, "navigation failed"), "navigation failed"},
		{Wrap(Setup, "", cause), "underlying"},
		{&Error{Code: Timeout}, "timeout"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error() = %q, want %q", got, tc.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := Wrap(Timeout, "deadline", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause must survive errors.Is")
	}
}

func TestIsBreakage(t *testing.T) {
	breakage := []Code{InvalidFixture, Setup, SelectorNotFound}
	for _, code := range breakage {
		if !IsBreakage(New(code, "x")) {
			t.Errorf("IsBreakage(%s) = false, want true", code)
		}
	}
	for _, code := range []Code{Timeout, AssertionMismatch, Internal} {
		if IsBreakage(New(code, "x")) {
			t.Errorf("IsBreakage(%s) = true, want false", code)
		}
	}
	if IsBreakage(errors.New("plain")) {
		t.Error("uncoded errors are not breakage")
	}
}

func TestCodeSurvivesArbitraryWrapping(t *testing.T) {
	codes := []Code{InvalidFixture, Setup, SelectorNotFound, Timeout, AssertionMismatch}
	rapid.Check(t, func(t *rapid.T) {
		code := rapid.SampledFrom(codes).Draw(t, "code")
		depth := rapid.IntRange(0, 5).Draw(t, "depth")

		err := New(code, rapid.String().Draw(t, "msg"))
		for i := 0; i < depth; i++ {
			err = fmt.Errorf("layer %d: %w", i, err)
		}
		if got := CodeOf(err); got != code {
			t.Fatalf("CodeOf = %q after %d wraps, want %q", got, depth, code)
		}
	})
}
