// Package browser contains the Playwright end-to-end suite for the
// Singlish→Sinhala conversion UI. By default the suite serves its own mock
// site and runs fully hermetically; set TRANSLATE_BASE_URL to aim the same
// tests at a live environment.
package browser

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/lankatools/singlish-e2e/internal/config"
	"github.com/lankatools/singlish-e2e/internal/driver"
	"github.com/lankatools/singlish-e2e/internal/obs"
	"github.com/lankatools/singlish-e2e/internal/runner"
	"github.com/lankatools/singlish-e2e/internal/suite"
	"github.com/lankatools/singlish-e2e/internal/transliterate"
)

const (
	// Always use this timeout constant for browser tests. Never introduce
	// a larger timeout value anywhere in tests/browser.
	browserMaxTimeout = 5 * time.Second

	// mockConvertDelay models the live service's async round trip.
	mockConvertDelay = 150 * time.Millisecond
)

// BrowserTestEnv is one target environment for the suite: a base URL, the
// runner configured for it, and (lazily) a shared headless browser.
type BrowserTestEnv struct {
	BaseURL string
	Cfg     *config.Config
	Runner  *runner.Runner

	server *httptest.Server // nil when targeting a live site
}

var (
	sharedFixtureMu sync.Mutex
	sharedFixture   *BrowserTestEnv

	browserMu     sync.Mutex
	sharedRuntime *playwright.Playwright
	sharedBrowser playwright.Browser
)

// SetupBrowserTestEnv returns the shared default environment: the hermetic
// mock site unless TRANSLATE_BASE_URL selects a live one.
func SetupBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()

	sharedFixtureMu.Lock()
	defer sharedFixtureMu.Unlock()

	if sharedFixture == nil {
		sharedFixture = newEnv(t, transliterate.Options{Delay: mockConvertDelay}, false)
	}
	return sharedFixture
}

// SetupFaultEnv serves a dedicated mock site with the given fault mode and
// tears it down with the test. Fault environments are always hermetic,
// regardless of TRANSLATE_BASE_URL: the point is a controlled failure.
func SetupFaultEnv(t *testing.T, opts transliterate.Options) *BrowserTestEnv {
	t.Helper()
	env := newEnv(t, opts, true)
	t.Cleanup(env.server.Close)
	return env
}

func newEnv(t *testing.T, opts transliterate.Options, forceHermetic bool) *BrowserTestEnv {
	t.Helper()
	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Deadline > browserMaxTimeout {
		cfg.Deadline = browserMaxTimeout
	}

	env := &BrowserTestEnv{Cfg: cfg}
	if cfg.Hermetic() || forceHermetic {
		env.server = httptest.NewServer(transliterate.Handler(opts))
		env.BaseURL = env.server.URL
	} else {
		env.BaseURL = cfg.BaseURL
	}

	r := runner.New(cfg)
	r.BaseURL = env.BaseURL
	env.Runner = r
	return env
}

// InitBrowser launches the shared headless Chromium. Skips the test when
// Playwright is not available, matching how CI hosts without browsers run
// the rest of the suite.
func (env *BrowserTestEnv) InitBrowser(t *testing.T) {
	t.Helper()

	browserMu.Lock()
	defer browserMu.Unlock()

	if sharedBrowser != nil {
		return
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skip("Playwright not available:", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(env.Cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		t.Skip("Could not launch browser:", err)
	}
	sharedRuntime = pw
	sharedBrowser = browser
}

// SessionFactory returns the per-case session factory: one fresh isolated
// browser context per case, closed by the runner on every exit path.
func (env *BrowserTestEnv) SessionFactory() driver.Factory {
	return func(ctx context.Context) (driver.Driver, error) {
		browserMu.Lock()
		b := sharedBrowser
		browserMu.Unlock()
		return driver.NewPlaywrightSession(b, browserMaxTimeout)
	}
}

// RunCase executes one fixture case end to end and writes its diagnostic
// attachments under the artifacts directory, pass or fail.
func (env *BrowserTestEnv) RunCase(t *testing.T, c suite.Case) suite.Outcome {
	t.Helper()

	outcome := env.Runner.RunCase(context.Background(), env.SessionFactory(), c)
	writeArtifacts(t, env.Cfg.ArtifactsDir, c.ID, outcome.Attachments)
	return outcome
}

// ReportOutcome translates an outcome into test-runner verdicts, applying
// the quarantine policy: a quarantined failure is expected and logged, a
// quarantined pass is surfaced loudly so the row can be promoted.
func ReportOutcome(t *testing.T, out suite.Outcome) {
	t.Helper()

	switch {
	case out.Passed && out.Quarantined:
		t.Logf("QUARANTINED case %s now PASSES against this target; promote it out of quarantine", out.CaseID)
	case out.Passed:
	case out.Quarantined:
		t.Logf("quarantined case %s failed as expected (%s): %s", out.CaseID, out.FailureCode, out.Detail)
	default:
		t.Errorf("case %s failed (%s): %s", out.CaseID, out.FailureCode, out.Detail)
	}
}

func writeArtifacts(t *testing.T, dir, caseID string, attachments []suite.Attachment) {
	t.Helper()

	caseDir := filepath.Join(dir, caseID)
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		t.Logf("Could not create artifact dir %s: %v", caseDir, err)
		return
	}
	for _, a := range attachments {
		path := filepath.Join(caseDir, a.Name)
		if err := os.WriteFile(path, a.Body, 0o644); err != nil {
			t.Logf("Could not write artifact %s: %v", path, err)
			continue
		}
		t.Logf("artifact: %s", path)
	}
}

// FixtureTablePath locates fixtures/cases.yaml from the repository root, so
// the suite runs from any package working directory.
func FixtureTablePath() string {
	return filepath.Join(repositoryRoot(), "fixtures", "cases.yaml")
}

func repositoryRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("Failed to resolve repository root for test utilities")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

func cleanupSharedBrowser() {
	browserMu.Lock()
	defer browserMu.Unlock()
	if sharedBrowser != nil {
		_ = sharedBrowser.Close()
		sharedBrowser = nil
	}
	if sharedRuntime != nil {
		_ = sharedRuntime.Stop()
		sharedRuntime = nil
	}
}

func cleanupSharedFixture() {
	sharedFixtureMu.Lock()
	defer sharedFixtureMu.Unlock()
	if sharedFixture != nil && sharedFixture.server != nil {
		sharedFixture.server.Close()
	}
	sharedFixture = nil
}

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedBrowser()
	cleanupSharedFixture()
	os.Exit(code)
}
