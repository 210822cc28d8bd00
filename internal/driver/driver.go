// Package driver defines the browser-automation surface the framework
// consumes and provides its Playwright implementation. The framework never
// assumes a specific automation library; everything above this package talks
// to Driver and locator.Element only.
package driver

import (
	"context"

	"github.com/lankatools/singlish-e2e/internal/locator"
)

// Driver is one isolated browser session scoped to a single test case.
// Implementations must tolerate Close after a failed operation; the runner
// calls it unconditionally.
type Driver interface {
	locator.Finder

	// Navigate loads the URL and waits for the DOM to be ready.
	Navigate(ctx context.Context, url string) error

	// Screenshot captures the full page as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the session and every handle derived from it.
	Close(ctx context.Context) error
}

// Factory creates a fresh isolated session. The runner invokes it once per
// test case; sessions are never shared across cases.
type Factory func(ctx context.Context) (Driver, error)
