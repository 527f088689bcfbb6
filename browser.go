package tdassist

import (
	"context"
	"time"
)

// Browser is the browser-control collaborator used by the discovery core.
//
// A Browser drives exactly one tab. Every method operates on that tab and
// blocks until the browser reports completion or ctx is done. Implementations
// are not required to be safe for concurrent use: one crawl owns the Browser
// for its whole lifetime.
type Browser interface {
	// Navigate loads url in the tab and waits for the DOM to be ready.
	// The caller bounds the attempt with a context deadline.
	Navigate(ctx context.Context, url string) error

	// URL returns the tab's current URL.
	URL(ctx context.Context) (string, error)

	// Title returns the current document title.
	Title(ctx context.Context) (string, error)

	// HTML returns a serialized snapshot of the rendered DOM.
	// Callers may mutate their parsed copy freely; the live page is untouched.
	HTML(ctx context.Context) (string, error)

	// Fill replaces the value of the first element matching selector.
	// Returns ENOTFOUND if no element matches.
	Fill(ctx context.Context, selector, value string) error

	// Click clicks the first element matching selector. When awaitNav is
	// positive, Click also waits up to awaitNav for the resulting navigation
	// and returns an error if none completes.
	// Returns ENOTFOUND if no element matches.
	Click(ctx context.Context, selector string, awaitNav time.Duration) error

	// PressEnter focuses the first element matching selector and presses Enter.
	// Returns ENOTFOUND if no element matches.
	PressEnter(ctx context.Context, selector string) error

	// WaitFor blocks until an element matching selector exists or timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// Screenshot captures the full page as PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// Status returns the last HTTP status observed for a response to url
	// during this session. The bool result is false if none was observed.
	Status(url string) (int, bool)

	// Close releases the tab and the browser process.
	Close() error
}
