package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/lankatools/singlish-e2e/internal/locator"
)

// PlaywrightSession implements Driver over one Playwright browser context
// with a single page. One session per test case; Close tears down both the
// page and its context.
type PlaywrightSession struct {
	browserCtx playwright.BrowserContext
	page       playwright.Page
	timeoutMS  float64
}

// NewPlaywrightSession creates an isolated context and page on the given
// browser. The timeout is applied as the default for every page and locator
// operation, including navigation.
func NewPlaywrightSession(browser playwright.Browser, timeout time.Duration) (*PlaywrightSession, error) {
	browserCtx, err := browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("driver: new browser context: %w", err)
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		return nil, fmt.Errorf("driver: new page: %w", err)
	}

	timeoutMS := float64(timeout.Milliseconds())
	page.SetDefaultTimeout(timeoutMS)
	page.SetDefaultNavigationTimeout(timeoutMS)

	return &PlaywrightSession{
		browserCtx: browserCtx,
		page:       page,
		timeoutMS:  timeoutMS,
	}, nil
}

func (s *PlaywrightSession) Navigate(ctx context.Context, url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.timeoutMS),
	})
	if err != nil {
		return fmt.Errorf("driver: goto %s: %w", url, err)
	}
	return nil
}

// Find maps a locator candidate onto Playwright's selector engines and
// returns every current match in DOM order.
func (s *PlaywrightSession) Find(ctx context.Context, c locator.Candidate) ([]locator.Element, error) {
	var loc playwright.Locator
	switch c.Kind {
	case locator.Placeholder:
		loc = s.page.GetByPlaceholder(c.Value)
	case locator.Role:
		opts := playwright.PageGetByRoleOptions{}
		if c.Name != "" {
			opts.Name = c.Name
		}
		loc = s.page.GetByRole(playwright.AriaRole(c.Value), opts)
	case locator.TestID:
		loc = s.page.GetByTestId(c.Value)
	case locator.Text:
		loc = s.page.GetByText(c.Value)
	case locator.CSS:
		loc = s.page.Locator(c.Value)
	default:
		return nil, fmt.Errorf("driver: unknown locator kind %q", c.Kind)
	}

	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("driver: count %s: %w", c, err)
	}
	elements := make([]locator.Element, 0, count)
	for i := 0; i < count; i++ {
		elements = append(elements, &playwrightElement{loc: loc.Nth(i)})
	}
	return elements, nil
}

func (s *PlaywrightSession) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("driver: screenshot: %w", err)
	}
	return data, nil
}

func (s *PlaywrightSession) Close(ctx context.Context) error {
	pageErr := s.page.Close()
	ctxErr := s.browserCtx.Close()
	if pageErr != nil {
		return fmt.Errorf("driver: close page: %w", pageErr)
	}
	if ctxErr != nil {
		return fmt.Errorf("driver: close context: %w", ctxErr)
	}
	return nil
}

// playwrightElement adapts one resolved Playwright locator to the element
// surface the framework consumes.
type playwrightElement struct {
	loc playwright.Locator
}

func (e *playwrightElement) Visible(ctx context.Context) (bool, error) {
	return e.loc.IsVisible()
}

func (e *playwrightElement) Fill(ctx context.Context, text string) error {
	return e.loc.Fill(text)
}

// Type sends text key by key, firing the per-keystroke events the site's
// transliteration script listens for. Fill bypasses those.
func (e *playwrightElement) Type(ctx context.Context, text string) error {
	return e.loc.PressSequentially(text)
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return e.loc.Click()
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	return e.loc.InnerText()
}
