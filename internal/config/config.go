// Package config provides process-wide configuration for a test run.
//
// Each process run targets exactly one environment, so configuration has an
// init-at-start lifecycle and no teardown. Values come from environment
// variables, with an optional .env file for local development; an empty
// TRANSLATE_BASE_URL selects the hermetic in-process mock site.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultDeadline caps each case's output poll. Mirrors the browser
	// suite's hard timeout; never raise it in individual tests.
	DefaultDeadline = 5 * time.Second

	// maxDeadline guards against a fat-fingered env var stalling CI.
	maxDeadline = 30 * time.Second

	// DefaultSubmitRPS throttles translate submissions across concurrent
	// cases so the suite stays polite toward the live service.
	DefaultSubmitRPS = 4.0
)

// Config holds all run configuration.
type Config struct {
	// BaseURL of the transliteration site. Empty means the suite serves
	// its own mock and points the browser at that.
	BaseURL string

	// Headless controls browser visibility. Off only for local debugging.
	Headless bool

	// Deadline bounds each case's readiness poll.
	Deadline time.Duration

	// SubmitRPS is the shared submission rate toward the target service.
	SubmitRPS float64

	// ArtifactsDir receives per-case transcripts and screenshots.
	ArtifactsDir string
}

// ValidationError aggregates every configuration issue found, so a broken
// environment is reported in one pass.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in when present (local development; CI sets real env
// vars). Call once at suite start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:      strings.TrimSpace(os.Getenv("TRANSLATE_BASE_URL")),
		Headless:     true,
		Deadline:     DefaultDeadline,
		SubmitRPS:    DefaultSubmitRPS,
		ArtifactsDir: "artifacts",
	}

	var issues []string

	if raw := os.Getenv("TRANSLATE_HEADLESS"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			issues = append(issues, fmt.Sprintf("TRANSLATE_HEADLESS: %q is not a boolean", raw))
		} else {
			cfg.Headless = v
		}
	}

	if raw := os.Getenv("TRANSLATE_DEADLINE"); raw != "" {
		d, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			issues = append(issues, fmt.Sprintf("TRANSLATE_DEADLINE: %q is not a duration", raw))
		case d <= 0:
			issues = append(issues, fmt.Sprintf("TRANSLATE_DEADLINE: must be positive, got %s", d))
		case d > maxDeadline:
			issues = append(issues, fmt.Sprintf("TRANSLATE_DEADLINE: %s exceeds the %s cap", d, maxDeadline))
		default:
			cfg.Deadline = d
		}
	}

	if raw := os.Getenv("TRANSLATE_RPS"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			issues = append(issues, fmt.Sprintf("TRANSLATE_RPS: %q is not a positive number", raw))
		} else {
			cfg.SubmitRPS = v
		}
	}

	if dir := strings.TrimSpace(os.Getenv("TRANSLATE_ARTIFACTS")); dir != "" {
		cfg.ArtifactsDir = dir
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			issues = append(issues, fmt.Sprintf("TRANSLATE_BASE_URL: %q is not an absolute http(s) URL", cfg.BaseURL))
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Errors: issues}
	}
	return cfg, nil
}

// Hermetic reports whether the run targets the in-process mock site.
func (c *Config) Hermetic() bool {
	return c.BaseURL == ""
}
