// Package runner executes one test case end to end: navigate, resolve the
// input field, type the Singlish text, trigger conversion, poll the output
// region until the case's readiness predicate holds, and evaluate.
//
// Each case gets its own isolated session, released unconditionally on every
// exit path. Every run, pass or fail, produces two diagnostic attachments: a
// text transcript of input/actual/expected and a full-page screenshot.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lankatools/singlish-e2e/internal/config"
	"github.com/lankatools/singlish-e2e/internal/driver"
	"github.com/lankatools/singlish-e2e/internal/errs"
	"github.com/lankatools/singlish-e2e/internal/locator"
	"github.com/lankatools/singlish-e2e/internal/obs"
	"github.com/lankatools/singlish-e2e/internal/poll"
	"github.com/lankatools/singlish-e2e/internal/readiness"
	"github.com/lankatools/singlish-e2e/internal/suite"
	"github.com/lankatools/singlish-e2e/internal/textnorm"
)

// Default locator tables. Semantic candidates first, structural CSS last,
// so the suite degrades gracefully across UI redesigns.
var (
	DefaultInputCandidates = []locator.Candidate{
		{Kind: locator.Placeholder, Value: "Type in Singlish"},
		{Kind: locator.Role, Value: "textbox"},
		{Kind: locator.CSS, Value: "#singlish"},
		{Kind: locator.CSS, Value: "textarea, input[type='text']"},
	}
	DefaultSubmitCandidates = []locator.Candidate{
		{Kind: locator.Role, Value: "button", Name: "Convert"},
		{Kind: locator.Text, Value: "Convert"},
		{Kind: locator.CSS, Value: "#convert-btn"},
		{Kind: locator.CSS, Value: "button[type='submit']"},
	}
	DefaultOutputCandidates = []locator.Candidate{
		{Kind: locator.TestID, Value: "sinhala-output"},
		{Kind: locator.Role, Value: "status"},
		{Kind: locator.CSS, Value: "#sinhala-output"},
		{Kind: locator.CSS, Value: ".result-cell"},
	}
)

// Runner drives cases against one target environment. Safe for concurrent
// use; the submission limiter is the only shared state.
type Runner struct {
	BaseURL  string
	Deadline time.Duration
	Backoff  []time.Duration

	// Limiter throttles submissions toward the target service across
	// concurrently running cases. Nil disables throttling.
	Limiter *rate.Limiter

	InputCandidates  []locator.Candidate
	SubmitCandidates []locator.Candidate
	OutputCandidates []locator.Candidate
}

// New builds a runner from process configuration with the default locator
// tables.
func New(cfg *config.Config) *Runner {
	return &Runner{
		BaseURL:          cfg.BaseURL,
		Deadline:         cfg.Deadline,
		Limiter:          rate.NewLimiter(rate.Limit(cfg.SubmitRPS), 1),
		InputCandidates:  DefaultInputCandidates,
		SubmitCandidates: DefaultSubmitCandidates,
		OutputCandidates: DefaultOutputCandidates,
	}
}

// RunCase executes one case in a fresh session from the factory and returns
// its terminal outcome. The session is closed on every exit path, and both
// diagnostic attachments are present on every outcome that got far enough to
// have a page (the transcript is always present).
func (r *Runner) RunCase(ctx context.Context, newSession driver.Factory, c suite.Case) suite.Outcome {
	log := obs.Case("runner", c.ID).With("run_id", uuid.NewString())
	tr := newTranscript(c)

	sess, err := newSession(ctx)
	if err != nil {
		tr.step("session launch failed: %v", err)
		return r.finish(log, tr, nil, failedOutcome(c, errs.Wrap(errs.Setup, fmt.Sprintf("launch session: %v", err), err)))
	}
	defer func() {
		// Teardown must survive a cancelled case context.
		if cerr := sess.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Warn("session close failed", "error", cerr)
		}
	}()

	outcome := r.runInSession(ctx, sess, c, tr)
	return r.finish(log, tr, sess, outcome)
}

func (r *Runner) runInSession(ctx context.Context, sess driver.Driver, c suite.Case, tr *transcript) suite.Outcome {
	if err := sess.Navigate(ctx, r.BaseURL); err != nil {
		tr.step("navigate %s failed: %v", r.BaseURL, err)
		return failedOutcome(c, errs.Wrap(errs.Setup, fmt.Sprintf("navigate %s: %v", r.BaseURL, err), err))
	}
	tr.step("navigated to %s", r.BaseURL)

	input, err := locator.Resolve(ctx, sess, r.InputCandidates)
	if err != nil {
		tr.step("input field: %v", err)
		return failedOutcome(c, selectorErr("input field", err))
	}
	if err := input.Type(ctx, c.Input); err != nil {
		tr.step("typing input failed: %v", err)
		return failedOutcome(c, errs.Wrap(errs.Setup, "type input", err))
	}
	tr.step("typed input %q", c.Input)

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return failedOutcome(c, errs.Wrap(errs.Setup, "await submission slot", err))
		}
	}

	submit, err := locator.Resolve(ctx, sess, r.SubmitCandidates)
	if err != nil {
		tr.step("submit control: %v", err)
		return failedOutcome(c, selectorErr("submit control", err))
	}
	if err := submit.Click(ctx); err != nil {
		tr.step("submit click failed: %v", err)
		return failedOutcome(c, errs.Wrap(errs.Setup, "click submit", err))
	}
	tr.step("submitted")

	output, err := locator.Resolve(ctx, sess, r.OutputCandidates)
	if err != nil {
		tr.step("output region: %v", err)
		return failedOutcome(c, selectorErr("output region", err))
	}

	pred, err := readiness.ByName(c.Wait)
	if err != nil {
		// Unreachable for validated tables; guards ad-hoc cases.
		return failedOutcome(c, errs.Wrap(errs.InvalidFixture, "resolve wait predicate", err))
	}
	tr.step("polling output until %s (deadline %s)", pred.Name, r.Deadline)

	res, err := poll.Until(ctx, output.Text, pred.Holds, poll.Options{
		Deadline:  r.Deadline,
		Backoff:   r.Backoff,
		Normalize: textnorm.Normalize,
	})
	if err != nil {
		var te *poll.TimeoutError
		if errors.As(err, &te) {
			tr.step("timed out: %v", te)
			out := failedOutcome(c, errs.Wrap(errs.Timeout, "output never became ready", te))
			out.Actual = te.LastText
			out.Detail = te.Error()
			return out
		}
		tr.step("polling aborted: %v", err)
		return failedOutcome(c, errs.Wrap(errs.Setup, "poll output", err))
	}
	tr.step("output ready after %d attempts (%s): %q", res.Attempts, res.Elapsed.Round(time.Millisecond), res.Normalized)

	outcome := suite.Evaluate(c, res.Normalized)
	if outcome.Passed {
		tr.step("assertion passed")
	} else {
		tr.step("assertion failed: %s", outcome.Detail)
	}
	return outcome
}

// finish records the transcript and screenshot on the outcome and logs the
// result. Attachments are produced regardless of outcome, so intermittent
// issues can be reviewed later from passing runs too.
func (r *Runner) finish(log *slog.Logger, tr *transcript, sess driver.Driver, outcome suite.Outcome) suite.Outcome {
	var shot []byte
	if sess != nil {
		var err error
		shot, err = sess.Screenshot(context.Background())
		if err != nil {
			tr.step("screenshot capture failed: %v", err)
			shot = nil
		}
	}

	tr.result(outcome)
	outcome.Attachments = append(outcome.Attachments, suite.Attachment{
		Name: "transcript.txt",
		Body: tr.bytes(),
	})
	if shot != nil {
		outcome.Attachments = append(outcome.Attachments, suite.Attachment{
			Name: "page.png",
			Body: shot,
		})
	}

	log.Info("case finished",
		"passed", outcome.Passed,
		"quarantined", outcome.Quarantined,
		"failure_code", string(outcome.FailureCode),
		"actual", outcome.Actual,
	)
	return outcome
}

func failedOutcome(c suite.Case, err error) suite.Outcome {
	return suite.Outcome{
		CaseID:      c.ID,
		Passed:      false,
		Detail:      err.Error(),
		FailureCode: errs.CodeOf(err),
		Quarantined: c.Quarantine,
	}
}

// selectorErr codes a resolution failure, keeping the attempted-candidate
// list in the message so the outcome's detail is debuggable on its own.
func selectorErr(what string, err error) error {
	var nf *locator.NotFoundError
	if errors.As(err, &nf) {
		return errs.Wrap(errs.SelectorNotFound, fmt.Sprintf("resolve %s: %v", what, nf), err)
	}
	return errs.Wrap(errs.Setup, fmt.Sprintf("resolve %s: %v", what, err), err)
}
