// Package rod drives a headless Chrome tab through go-rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/tdassist"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Session implements tdassist.Browser at compile time.
var _ tdassist.Browser = (*Session)(nil)

// Session is one browser process with a single tab. Every operation runs
// against that tab, so a Session is meant to be driven by one caller at a
// time. HTTP response statuses seen by the tab are recorded in the
// background and can be read concurrently.
//
// Close must be called when the Session is no longer needed; Acquire does
// this automatically.
type Session struct {
	browser       *rod.Browser
	launcher      *launcher.Launcher
	page          *rod.Page
	actionTimeout time.Duration

	stopEvents context.CancelFunc
	eventsDone chan struct{}

	mu       sync.Mutex
	statuses map[string]int

	closed atomic.Bool
}

// NewSession launches a headless Chrome and opens its tab.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewSession(opts ...Option) (*Session, error) {
	cfg := config{
		headless:      true,
		actionTimeout: DefaultActionTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	browser, lnchr, err := launch(cfg)
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		lnchr.Kill()
		return nil, fmt.Errorf("opening tab: %w", err)
	}

	s := &Session{
		browser:       browser,
		launcher:      lnchr,
		page:          page,
		actionTimeout: cfg.actionTimeout,
		statuses:      make(map[string]int),
		eventsDone:    make(chan struct{}),
	}
	s.watchResponses()
	return s, nil
}

// Acquire runs fn with a new Session and closes the Session on every exit
// path.
func Acquire(ctx context.Context, fn func(context.Context, *Session) error, opts ...Option) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, err := NewSession(opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return fn(ctx, s)
}

// watchResponses records the status of every response the tab receives.
// The subscription is made before watchResponses returns, so no response
// of a later navigation is missed.
func (s *Session) watchResponses() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopEvents = cancel
	wait := s.page.Context(ctx).EachEvent(func(e *proto.NetworkResponseReceived) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.statuses[e.Response.URL] = e.Response.Status
	})
	go func() {
		defer close(s.eventsDone)
		wait()
	}()
}

// Navigate loads url in the tab and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

// URL returns the tab's current URL.
func (s *Session) URL(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Title returns the current document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

// HTML returns a snapshot of the rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

// element finds the first element matching selector without waiting.
// Returns ENOTFOUND if nothing matches.
func (s *Session) element(ctx context.Context, selector string) (*rod.Element, error) {
	has, el, err := s.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, tdassist.Errorf(tdassist.ENOTFOUND, "no element matches %q", selector)
	}
	return el, nil
}

// Fill replaces the value of the first element matching selector.
// Returns ENOTFOUND if nothing matches and an error if the element does
// not become writable within the action timeout.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.actionTimeout)
	defer cancel()

	el, err := s.element(ctx, selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("selecting text of %q: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("typing into %q: %w", selector, err)
	}
	return nil
}

// Click clicks the first element matching selector. With a positive
// awaitNav it then waits that long for a navigation to finish loading and
// returns an error if none does.
func (s *Session) Click(ctx context.Context, selector string, awaitNav time.Duration) error {
	actx, cancel := context.WithTimeout(ctx, s.actionTimeout)
	defer cancel()

	el, err := s.element(actx, selector)
	if err != nil {
		return err
	}

	if awaitNav <= 0 {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}

	navCtx, navCancel := context.WithTimeout(ctx, awaitNav)
	defer navCancel()
	wait := s.page.Context(navCtx).WaitNavigation(proto.PageLifecycleEventNameLoad)

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	wait()
	if err := navCtx.Err(); err != nil {
		return fmt.Errorf("waiting for navigation after clicking %q: %w", selector, err)
	}
	return nil
}

// PressEnter presses Enter in the first element matching selector.
func (s *Session) PressEnter(ctx context.Context, selector string) error {
	ctx, cancel := context.WithTimeout(ctx, s.actionTimeout)
	defer cancel()

	el, err := s.element(ctx, selector)
	if err != nil {
		return err
	}
	return el.Type(input.Enter)
}

// WaitFor blocks until an element matching selector exists or timeout
// elapses.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := s.page.Context(ctx).Element(selector); err != nil {
		return fmt.Errorf("waiting for %q: %w", selector, err)
	}
	return nil
}

// Screenshot captures the full page as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	return s.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Status returns the last HTTP status seen for url.
func (s *Session) Status(url string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.statuses[url]; ok {
		return code, true
	}
	// Chrome reports a bare origin with a trailing slash
	code, ok := s.statuses[url+"/"]
	return code, ok
}

// LauncherPID returns the process ID of the browser process.
func (s *Session) LauncherPID() int {
	return s.launcher.PID()
}

// Close releases the tab, the browser and its process.
// Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.stopEvents()
	<-s.eventsDone

	err := s.page.Close()
	if berr := s.browser.Close(); berr != nil {
		err = errors.Join(err, berr)
	}
	s.launcher.Kill()
	return err
}
