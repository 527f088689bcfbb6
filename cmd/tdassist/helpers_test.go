package main_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Unix(1700000000, 0)
}

// fakeApp serves a small set of pages through a mock browser.
type fakeApp struct {
	pages map[string]string

	mu      sync.Mutex
	current string
	visited []string
	closed  bool
}

func newFakeApp() *fakeApp {
	return &fakeApp{pages: map[string]string{
		"https://app.example.com/": `<html><head><title>Home</title></head><body>
<nav><a href="/orders">Orders</a><a href="/reports">Reports</a></nav>
<h1>Dashboard</h1><p>Operators review every order above the approval threshold.</p>
<a href="https://elsewhere.example.org/">External</a>
</body></html>`,
		"https://app.example.com/orders": `<html><head><title>Orders</title></head><body>
<h1>Orders</h1><p>Rejected orders return to the sales queue with a comment.</p>
<a href="/">Home</a>
</body></html>`,
		"https://app.example.com/reports": `<html><head><title>Reports</title></head><body>
<h1>Reports</h1><p>Quarterly revenue reports are exported every Monday morning.</p>
</body></html>`,
	}}
}

func (a *fakeApp) browser() *mock.Browser {
	return &mock.Browser{
		NavigateFn: func(ctx context.Context, url string) error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.visited = append(a.visited, url)
			if _, ok := a.pages[url]; !ok {
				return errors.New("net::ERR_NAME_NOT_RESOLVED")
			}
			a.current = url
			return nil
		},
		URLFn: func(ctx context.Context) (string, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			return a.current, nil
		},
		TitleFn: func(ctx context.Context) (string, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			html := a.pages[a.current]
			start := strings.Index(html, "<title>") + len("<title>")
			end := strings.Index(html, "</title>")
			return html[start:end], nil
		},
		HTMLFn: func(ctx context.Context) (string, error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			return a.pages[a.current], nil
		},
		FillFn: func(ctx context.Context, selector, value string) error {
			return tdassist.Errorf(tdassist.ENOTFOUND, "no element matches %q", selector)
		},
		ClickFn: func(ctx context.Context, selector string, awaitNav time.Duration) error {
			return tdassist.Errorf(tdassist.ENOTFOUND, "no element matches %q", selector)
		},
		PressEnterFn: func(ctx context.Context, selector string) error {
			return tdassist.Errorf(tdassist.ENOTFOUND, "no element matches %q", selector)
		},
		WaitForFn: func(ctx context.Context, selector string, timeout time.Duration) error {
			return nil
		},
		ScreenshotFn: func(ctx context.Context) ([]byte, error) {
			return []byte("\x89PNG"), nil
		},
		StatusFn: func(url string) (int, bool) {
			a.mu.Lock()
			defer a.mu.Unlock()
			if _, ok := a.pages[url]; ok {
				return 200, true
			}
			return 0, false
		},
		CloseFn: func() error {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.closed = true
			return nil
		},
	}
}

func (a *fakeApp) navigations() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.visited))
	copy(out, a.visited)
	return out
}

func (a *fakeApp) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

const modelReply = `Here are the questions.
{"domain_questions":[{"q":"Who approves large orders?","answer_hint":"Operators","difficulty":"easy","tags":["orders"]}],
 "technical_questions":[{"q":"Where is the approval threshold stored?","difficulty":"hard","tags":"config, storage"}]}`

func fakeCompleter() *mock.Completer {
	return &mock.Completer{
		CompleteFn: func(ctx context.Context, prompt string) (string, error) {
			return modelReply, nil
		},
	}
}
