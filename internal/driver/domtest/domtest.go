// Package domtest implements the driver surface over a static HTML snapshot
// parsed with goquery, so resolver and runner logic can be exercised without
// a browser. Element text can follow a scripted sequence per candidate,
// which is how tests model asynchronously arriving output.
package domtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/lankatools/singlish-e2e/internal/locator"
)

// Page is a fake browser session over one parsed document.
//
// Actions (navigate, fill, type, click) are recorded for assertions rather
// than executed; text reads come from the document unless a script sequence
// is registered for the candidate that located the element.
type Page struct {
	mu sync.Mutex

	doc    *goquery.Document
	routes map[string]string // url -> html swapped in on Navigate

	scripts map[string][]string // candidate description -> successive texts
	cursor  map[string]int

	Actions     []string // recorded action log, e.g. `fill css="#in" "mama"`
	Closed      bool
	NavigateErr error
}

// New parses the initial document.
func New(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("domtest: parse html: %w", err)
	}
	return &Page{
		doc:     doc,
		routes:  map[string]string{},
		scripts: map[string][]string{},
		cursor:  map[string]int{},
	}, nil
}

// Route swaps in different HTML when Navigate hits the given URL.
func (p *Page) Route(url, html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[url] = html
}

// ScriptText registers the successive values Text returns for elements
// located by the candidate. The last value repeats once the sequence is
// exhausted, matching a page whose output has settled.
func (p *Page) ScriptText(c locator.Candidate, texts ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts[c.String()] = texts
}

func (p *Page) record(format string, args ...any) {
	p.Actions = append(p.Actions, fmt.Sprintf(format, args...))
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.record("navigate %s", url)
	if html, ok := p.routes[url]; ok {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("domtest: parse routed html: %w", err)
		}
		p.doc = doc
	}
	return nil
}

func (p *Page) Find(ctx context.Context, c locator.Candidate) ([]locator.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel, err := p.selectCandidate(c)
	if err != nil {
		return nil, err
	}

	elements := make([]locator.Element, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		elements = append(elements, &element{page: p, sel: s, key: c.String()})
	})
	return elements, nil
}

// selectCandidate maps candidate kinds onto the static document. Role
// matching is explicit-attribute only: the snapshot has no accessibility
// tree, so implicit roles are out of scope for this fake.
func (p *Page) selectCandidate(c locator.Candidate) (*goquery.Selection, error) {
	switch c.Kind {
	case locator.CSS:
		return p.doc.Find(c.Value), nil
	case locator.Placeholder:
		return p.doc.Find(fmt.Sprintf("[placeholder=%q]", c.Value)), nil
	case locator.TestID:
		return p.doc.Find(fmt.Sprintf("[data-testid=%q]", c.Value)), nil
	case locator.Role:
		sel := p.doc.Find(fmt.Sprintf("[role=%q]", c.Value))
		if c.Name == "" {
			return sel, nil
		}
		return sel.FilterFunction(func(i int, s *goquery.Selection) bool {
			if label, ok := s.Attr("aria-label"); ok && label == c.Name {
				return true
			}
			return strings.TrimSpace(s.Text()) == c.Name
		}), nil
	case locator.Text:
		return p.doc.Find("*").FilterFunction(func(i int, s *goquery.Selection) bool {
			return strings.TrimSpace(s.Text()) == c.Value
		}), nil
	default:
		return nil, fmt.Errorf("domtest: unknown locator kind %q", c.Kind)
	}
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("screenshot")
	html, err := p.doc.Html()
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

func (p *Page) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	p.record("close")
	return nil
}

// element is one located node. key identifies the candidate that found it,
// which is what script sequences are registered under.
type element struct {
	page *Page
	sel  *goquery.Selection
	key  string
}

// Visible walks the node and its ancestors for the hidden attribute and
// inline display:none / visibility:hidden styles.
func (e *element) Visible(ctx context.Context) (bool, error) {
	for s := e.sel; s.Length() > 0; s = s.Parent() {
		if goquery.NodeName(s) == "html" {
			break
		}
		if _, hidden := s.Attr("hidden"); hidden {
			return false, nil
		}
		style, _ := s.Attr("style")
		style = strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false, nil
		}
	}
	return true, nil
}

func (e *element) Fill(ctx context.Context, text string) error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	e.page.record("fill %s %q", e.key, text)
	return nil
}

func (e *element) Type(ctx context.Context, text string) error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	e.page.record("type %s %q", e.key, text)
	return nil
}

func (e *element) Click(ctx context.Context) error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	e.page.record("click %s", e.key)
	return nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	if seq, ok := e.page.scripts[e.key]; ok && len(seq) > 0 {
		i := e.page.cursor[e.key]
		if i >= len(seq) {
			i = len(seq) - 1
		} else {
			e.page.cursor[e.key]++
		}
		return seq[i], nil
	}
	return e.sel.Text(), nil
}
