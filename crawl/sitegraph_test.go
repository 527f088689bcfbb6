package crawl_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fwojciec/tdassist/crawl"
	"github.com/fwojciec/tdassist/mock"
)

// fakeSite simulates a site behind a single browser tab. The "HTML" of a
// page is its URL, which the link extractor maps back to the page's hrefs.
type fakeSite struct {
	mu       sync.Mutex
	links    map[string][]string
	failing  map[string]bool
	current  string
	navs     []string
	htmlRead int
}

func newFakeSite(links map[string][]string) *fakeSite {
	return &fakeSite{links: links, failing: map[string]bool{}}
}

func (s *fakeSite) browser() *mock.Browser {
	return &mock.Browser{
		NavigateFn: func(_ context.Context, url string) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.navs = append(s.navs, url)
			if s.failing[url] {
				return errors.New("navigation timeout exceeded")
			}
			s.current = url
			return nil
		},
		URLFn: func(context.Context) (string, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.current, nil
		},
		TitleFn: func(context.Context) (string, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			return "Title " + s.current, nil
		},
		HTMLFn: func(context.Context) (string, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.htmlRead++
			return s.current, nil
		},
		StatusFn: func(url string) (int, bool) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.failing[url] {
				return 0, false
			}
			return 200, true
		},
		ScreenshotFn: func(context.Context) ([]byte, error) {
			return []byte("\x89PNG"), nil
		},
	}
}

func (s *fakeSite) linkExtractor() *mock.LinkExtractor {
	return &mock.LinkExtractor{
		HrefsFn: func(html string) []string {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.links[html]
		},
	}
}

func (s *fakeSite) scheduler() *crawl.Scheduler {
	b := s.browser()
	return &crawl.Scheduler{
		Browser:   b,
		Navigator: &crawl.Navigator{Browser: b, Backoff: noBackoff},
		Extractor: &mock.Extractor{ExtractFn: func(html string) string { return "text of " + html }},
		Links:     s.linkExtractor(),
		Now:       func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

func (s *fakeSite) navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navs...)
}

func noBackoff(int) time.Duration { return 0 }
