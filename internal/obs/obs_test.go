package obs

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOne(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestSetOutputForTests_CapturesAndRestores(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)

	Pkg("obs").Info("hello")
	require.NotZero(t, buf.Len())

	restore()
	before := buf.Len()
	Pkg("obs").Info("after restore")
	assert.Equal(t, before, buf.Len(), "restored logger no longer writes to the buffer")
}

func TestPkg_TagsEntries(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutputForTests(&buf)()

	Pkg("poller").Info("sampled", "attempt", 3)
	entry := captureOne(t, &buf)

	assert.Equal(t, "poller", entry["pkg"])
	assert.Equal(t, "sampled", entry["msg"])
	assert.Equal(t, float64(3), entry["attempt"])
}

func TestCase_TagsPackageAndCase(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutputForTests(&buf)()

	Case("runner", "greeting-basic").Info("case finished", "passed", true)
	entry := captureOne(t, &buf)

	assert.Equal(t, "runner", entry["pkg"])
	assert.Equal(t, "greeting-basic", entry["case"])
	assert.Equal(t, true, entry["passed"])
}

func TestTimestampsAreUTCNano(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutputForTests(&buf)()

	Pkg("obs").Info("tick")
	entry := captureOne(t, &buf)

	raw, ok := entry["time"].(string)
	require.True(t, ok)
	ts, err := time.Parse(time.RFC3339Nano, raw)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	assert.True(t, strings.HasSuffix(raw, "Z"), "UTC timestamps end in Z, got %s", raw)
}
