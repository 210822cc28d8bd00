package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRANSLATE_BASE_URL",
		"TRANSLATE_HEADLESS",
		"TRANSLATE_DEADLINE",
		"TRANSLATE_RPS",
		"TRANSLATE_ARTIFACTS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Hermetic())
	assert.True(t, cfg.Headless)
	assert.Equal(t, 5*time.Second, cfg.Deadline)
	assert.Equal(t, 4.0, cfg.SubmitRPS)
	assert.Equal(t, "artifacts", cfg.ArtifactsDir)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATE_BASE_URL", "https://www.easysinhalaunicode.com")
	t.Setenv("TRANSLATE_HEADLESS", "false")
	t.Setenv("TRANSLATE_DEADLINE", "8s")
	t.Setenv("TRANSLATE_RPS", "1.5")
	t.Setenv("TRANSLATE_ARTIFACTS", "/tmp/run-artifacts")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Hermetic())
	assert.Equal(t, "https://www.easysinhalaunicode.com", cfg.BaseURL)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 8*time.Second, cfg.Deadline)
	assert.Equal(t, 1.5, cfg.SubmitRPS)
	assert.Equal(t, "/tmp/run-artifacts", cfg.ArtifactsDir)
}

func TestLoad_CollectsAllIssues(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRANSLATE_BASE_URL", "not a url")
	t.Setenv("TRANSLATE_HEADLESS", "maybe")
	t.Setenv("TRANSLATE_DEADLINE", "2 fortnights")
	t.Setenv("TRANSLATE_RPS", "-3")

	_, err := Load()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 4)
	assert.Contains(t, verr.Error(), "TRANSLATE_BASE_URL")
	assert.Contains(t, verr.Error(), "TRANSLATE_HEADLESS")
}

func TestLoad_DeadlineBounds(t *testing.T) {
	clearEnv(t)

	t.Setenv("TRANSLATE_DEADLINE", "-1s")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("TRANSLATE_DEADLINE", "10m")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cap")
}
