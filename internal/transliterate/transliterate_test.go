package transliterate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"mama gedhara inne", "මම ගෙදර ඉන්නේ"},
		{"MAMA gedhara INNE", "මම ගෙදර ඉන්නේ"},
		{"mata 10 dhenna", "මට 10 දෙන්න"},
		{"xyzzy gedhara", "xyzzy ගෙදර"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Convert(tc.input), tc.input)
	}
}

func postConvert(t *testing.T, baseURL, text string) string {
	t.Helper()
	resp, err := http.Post(baseURL+"/api/convert", "application/json",
		strings.NewReader(`{"text":`+mustJSON(t, text)+`}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Output string `json:"output"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Output
}

func mustJSON(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

func TestHandler_ServesPageAndAPI(t *testing.T) {
	server := httptest.NewServer(Handler(Options{}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	assert.Equal(t, "මම ගෙදර ඉන්නේ", postConvert(t, server.URL, "mama gedhara inne"))
}

func TestHandler_Delay(t *testing.T) {
	server := httptest.NewServer(Handler(Options{Delay: 50 * time.Millisecond}))
	defer server.Close()

	start := time.Now()
	out := postConvert(t, server.URL, "mama")
	assert.Equal(t, "මම", out)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestHandler_DecorateOutput(t *testing.T) {
	server := httptest.NewServer(Handler(Options{DecorateOutput: true}))
	defer server.Close()

	out := postConvert(t, server.URL, "mama gedhara")
	assert.Contains(t, out, "\u200d")
	assert.NotEqual(t, "මම ගෙදර", out, "decorated output differs before normalization")
}

func TestHandler_BadBody(t *testing.T) {
	server := httptest.NewServer(Handler(Options{}))
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/convert", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
