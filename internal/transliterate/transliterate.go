// Package transliterate serves a local stand-in for the Singlish→Sinhala
// site, with the same interaction shape: type into a text box, press
// Convert, and the output region fills in asynchronously. The word table
// covers the suite's fixture inputs; unknown words pass through unchanged.
//
// Fault modes let the browser suite exercise its failure paths hermetically:
// a silent service for the timeout path, a hidden primary output region for
// the selector-fallback path, and decorated output for the normalization
// path.
package transliterate

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"
)

// words maps lowercase Singlish tokens to Sinhala. Data, not linguistics:
// just enough vocabulary for the fixture tables.
var words = map[string]string{
	"mama":      "මම",
	"mata":      "මට",
	"api":       "අපි",
	"oyaa":      "ඔයා",
	"oyaata":    "ඔයාට",
	"gedhara":   "ගෙදර",
	"inne":      "ඉන්නේ",
	"innawa":    "ඉන්නවා",
	"kohomadha": "කොහොමද",
	"dhenna":    "දෙන්න",
	"bath":      "බත්",
	"kanawa":    "කනවා",
	"yanawa":    "යනවා",
	"adha":      "අද",
	"heta":      "හෙට",
	"hondai":    "හොඳයි",
	"salli":     "සල්ලි",
	"potha":     "පොත",
	"kiyawanawa": "කියවනවා",
}

// Convert transliterates word by word. Unknown tokens (including bare
// numbers) pass through unchanged, which is also what the live service does.
func Convert(input string) string {
	fields := strings.Fields(input)
	for i, f := range fields {
		if sinhala, ok := words[strings.ToLower(f)]; ok {
			fields[i] = sinhala
		}
	}
	return strings.Join(fields, " ")
}

// Options select the page variant served.
type Options struct {
	// Delay before the converted output appears, modeling the live
	// service's asynchronous round trip.
	Delay time.Duration

	// Silent serves a page that never populates the output region.
	Silent bool

	// HidePrimaryOutput hides the semantic output element so only the
	// structural fallback selector can resolve a visible region.
	HidePrimaryOutput bool

	// DecorateOutput pads converted text with zero-width joiners and ragged
	// whitespace, the way ligature-shaping DOMs sometimes render it.
	DecorateOutput bool
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Singlish to Sinhala</title></head>
<body>
  <h1>Singlish to Sinhala converter</h1>
  <form id="convert-form" onsubmit="return false;">
    <input id="singlish" type="text" placeholder="Type in Singlish" autocomplete="off">
    <button id="convert-btn" type="submit">Convert</button>
  </form>
  <div id="sinhala-output" role="status" data-testid="sinhala-output"{{if .HidePrimaryOutput}} hidden{{end}}></div>
  {{if .HidePrimaryOutput}}<div class="result-cell"></div>{{end}}
  <script>
    const input = document.getElementById('singlish');
    const button = document.getElementById('convert-btn');
    const silent = {{.Silent}};

    async function convert() {
      if (silent) return;
      const resp = await fetch('/api/convert', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({text: input.value}),
      });
      const body = await resp.json();
      for (const el of document.querySelectorAll('#sinhala-output, .result-cell')) {
        el.textContent = body.output;
      }
    }

    button.addEventListener('click', convert);
    input.addEventListener('keydown', (e) => { if (e.key === 'Enter') convert(); });
  </script>
</body>
</html>
`))

// Handler returns the mock site: the page at "/" and the conversion API at
// "POST /api/convert".
func Handler(opts Options) http.Handler {
	mux := http.NewServeMux()

	// Method/path dispatch is spelled out by hand because the build toolchain
	// is Go 1.21, which predates ServeMux patterns like "GET /{$}".
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, opts); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/api/convert", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}

		if opts.Delay > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(opts.Delay):
			}
		}

		output := Convert(req.Text)
		if opts.DecorateOutput && output != "" {
			output = " \u200d" + strings.ReplaceAll(output, " ", " \u200d\n ") + "\u200d \n"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"output": output})
	})

	return mux
}
