// Package poll implements bounded retry against a moving text target.
//
// The output region of an asynchronous front-end is populated at some
// unknown point after submission; partially rendered or stale text must not
// be accepted. Until samples the target, normalizes each sample, and returns
// the first text the predicate accepts. It knows nothing about browsers: the
// sampler is injected, so the loop is unit-testable with canned sequences.
package poll

import (
	"context"
	"fmt"
	"time"
)

// Defaults match the browser suite's hard 5s cap.
var (
	DefaultDeadline = 5 * time.Second
	DefaultBackoff  = []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}
)

// Sampler reads the current raw text of whatever is being polled.
type Sampler func(ctx context.Context) (string, error)

// Result is one satisfied poll.
type Result struct {
	Raw        string
	Normalized string
	Attempts   int
	Elapsed    time.Duration
}

// TimeoutError reports deadline exhaustion. LastText carries the final
// observed normalized text (possibly empty) so a failure can be diagnosed
// without re-running.
type TimeoutError struct {
	LastText string
	Attempts int
	Deadline time.Duration
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("predicate not satisfied within %s (%d attempts, %s elapsed); last text %q",
		e.Deadline, e.Attempts, e.Elapsed.Round(time.Millisecond), e.LastText)
}

// Options tune one poll. The zero value selects the package defaults.
type Options struct {
	Deadline time.Duration
	// Backoff is the sleep schedule between attempts. Once exhausted the
	// last entry repeats.
	Backoff []time.Duration
	// Normalize is applied to every sample before the predicate sees it.
	// Nil means identity.
	Normalize func(string) string
}

// Until samples until holds accepts the normalized text, then returns
// immediately. On deadline exhaustion it returns a *TimeoutError; sampler
// errors and context cancellation abort the loop as-is.
func Until(ctx context.Context, sample Sampler, holds func(string) bool, opts Options) (Result, error) {
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	backoff := opts.Backoff
	if len(backoff) == 0 {
		backoff = DefaultBackoff
	}
	normalize := opts.Normalize
	if normalize == nil {
		normalize = func(s string) string { return s }
	}

	start := time.Now()
	for attempt := 1; ; attempt++ {
		raw, err := sample(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("poll: sample attempt %d: %w", attempt, err)
		}
		normalized := normalize(raw)
		if holds(normalized) {
			return Result{
				Raw:        raw,
				Normalized: normalized,
				Attempts:   attempt,
				Elapsed:    time.Since(start),
			}, nil
		}

		elapsed := time.Since(start)
		if elapsed >= deadline {
			return Result{}, &TimeoutError{
				LastText: normalized,
				Attempts: attempt,
				Deadline: deadline,
				Elapsed:  elapsed,
			}
		}

		wait := backoff[min(attempt-1, len(backoff)-1)]
		if remaining := deadline - elapsed; wait > remaining {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}
}
