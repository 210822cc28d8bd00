package domtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankatools/singlish-e2e/internal/locator"
)

const samplePage = `<html><body>
  <input id="singlish" placeholder="Type in Singlish">
  <button id="convert" role="button" aria-label="Convert">Convert</button>
  <div id="out" data-testid="sinhala-output" role="status"></div>
  <div id="secret" hidden>hidden text</div>
  <section style="display: none"><span id="nested">inside hidden parent</span></section>
</body></html>`

func mustPage(t *testing.T) *Page {
	t.Helper()
	p, err := New(samplePage)
	require.NoError(t, err)
	return p
}

func TestFind_ByEachKind(t *testing.T) {
	p := mustPage(t)
	ctx := context.Background()

	for _, c := range []locator.Candidate{
		{Kind: locator.Placeholder, Value: "Type in Singlish"},
		{Kind: locator.Role, Value: "button", Name: "Convert"},
		{Kind: locator.TestID, Value: "sinhala-output"},
		{Kind: locator.Text, Value: "Convert"},
		{Kind: locator.CSS, Value: "#singlish"},
	} {
		matches, err := p.Find(ctx, c)
		require.NoError(t, err, c.String())
		assert.NotEmpty(t, matches, c.String())
	}

	matches, err := p.Find(ctx, locator.Candidate{Kind: locator.CSS, Value: ".absent"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestVisibility(t *testing.T) {
	p := mustPage(t)
	ctx := context.Background()

	visible := func(c locator.Candidate) bool {
		t.Helper()
		matches, err := p.Find(ctx, c)
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		v, err := matches[0].Visible(ctx)
		require.NoError(t, err)
		return v
	}

	assert.True(t, visible(locator.Candidate{Kind: locator.CSS, Value: "#singlish"}))
	assert.False(t, visible(locator.Candidate{Kind: locator.CSS, Value: "#secret"}), "hidden attribute")
	assert.False(t, visible(locator.Candidate{Kind: locator.CSS, Value: "#nested"}), "hidden ancestor")
}

func TestScriptedTextSequence(t *testing.T) {
	p := mustPage(t)
	ctx := context.Background()
	out := locator.Candidate{Kind: locator.TestID, Value: "sinhala-output"}
	p.ScriptText(out, "", "මම ගෙ", "මම ගෙදර ඉන්නේ")

	matches, err := p.Find(ctx, out)
	require.NoError(t, err)
	el := matches[0]

	reads := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		text, err := el.Text(ctx)
		require.NoError(t, err)
		reads = append(reads, text)
	}
	assert.Equal(t, []string{"", "මම ගෙ", "මම ගෙදර ඉන්නේ", "මම ගෙදර ඉන්නේ"}, reads,
		"sequence clamps to its last entry once settled")
}

func TestActionsRecorded(t *testing.T) {
	p := mustPage(t)
	ctx := context.Background()

	require.NoError(t, p.Navigate(ctx, "http://local/"))
	in := locator.Candidate{Kind: locator.CSS, Value: "#singlish"}
	matches, err := p.Find(ctx, in)
	require.NoError(t, err)
	require.NoError(t, matches[0].Type(ctx, "mama"))
	require.NoError(t, matches[0].Fill(ctx, "mama gedhara"))
	require.NoError(t, p.Close(ctx))

	assert.True(t, p.Closed)
	assert.Equal(t, []string{
		"navigate http://local/",
		`type css="#singlish" "mama"`,
		`fill css="#singlish" "mama gedhara"`,
		"close",
	}, p.Actions)
}

func TestRouteSwapsDocument(t *testing.T) {
	p := mustPage(t)
	ctx := context.Background()
	p.Route("http://local/other", `<html><body><div id="only-here">x</div></body></html>`)

	require.NoError(t, p.Navigate(ctx, "http://local/other"))
	matches, err := p.Find(ctx, locator.Candidate{Kind: locator.CSS, Value: "#only-here"})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
