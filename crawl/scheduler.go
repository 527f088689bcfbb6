// Package crawl discovers the page graph of a web application: retried
// navigation, an optional form login, and a breadth-first crawl over a
// single browser tab.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/tdassist"
)

// DefaultPageBudget is the default maximum number of pages per crawl.
const DefaultPageBudget = 40

// Options configures a crawl.
type Options struct {
	// PageBudget caps the number of page records produced.
	PageBudget int

	// Settle is the pause after each successful navigation.
	Settle time.Duration

	// SamePathOnly restricts discovered links to the seed's directory prefix.
	SamePathOnly bool

	// Screenshots captures a full-page PNG of every successfully loaded page.
	Screenshots bool

	// NavTimeout bounds each navigation attempt.
	NavTimeout time.Duration

	// ExtraSeeds are enqueued after the seed, in order, when in scope.
	ExtraSeeds []string
}

// ProgressEvent reports a finished page.
type ProgressEvent struct {
	URL     string
	Visited int
	Budget  int
	Queued  int
	Err     string
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(ProgressEvent)

// Scheduler runs breadth-first crawls over one shared browser tab.
// A Scheduler owns its Browser for the duration of a crawl; crawls must not
// overlap.
type Scheduler struct {
	Browser     tdassist.Browser
	Navigator   *Navigator // nil builds one over Browser
	Extractor   tdassist.Extractor
	Links       tdassist.LinkExtractor
	RateLimiter tdassist.DomainLimiter // optional
	Progress    ProgressFunc           // optional
	Logger      *slog.Logger
	Now         func() time.Time
}

// Crawl visits pages breadth-first from seedURL until the frontier is empty
// or opts.PageBudget records exist. Per-page failures are recorded on the
// page; the returned error is non-nil only for invalid options or when ctx
// is canceled, in which case the records gathered so far are returned too.
func (s *Scheduler) Crawl(ctx context.Context, seedURL string, opts Options) ([]*tdassist.PageRecord, error) {
	run, err := s.Start(seedURL, opts)
	if err != nil {
		return nil, err
	}
	for !run.Done() {
		if _, err := run.Step(ctx); err != nil {
			return run.Results(), err
		}
	}
	return run.Results(), nil
}

// Start prepares a crawl without visiting anything. The returned Run is
// advanced one page at a time with Step, which lets callers stop between
// pages.
func (s *Scheduler) Start(seedURL string, opts Options) (*Run, error) {
	if opts.PageBudget < 1 {
		return nil, tdassist.Errorf(tdassist.EINVALID, "page budget must be at least 1")
	}
	if s.Browser == nil || s.Extractor == nil || s.Links == nil {
		return nil, tdassist.Errorf(tdassist.EINVALID, "scheduler requires a browser, extractor and link extractor")
	}
	scope, err := NewScope(seedURL, opts.SamePathOnly)
	if err != nil {
		return nil, err
	}

	frontier := NewFrontier(uint(opts.PageBudget) * 32)
	frontier.Push(seedURL)
	for _, u := range opts.ExtraSeeds {
		if next, ok := scope.Resolve(seedURL, u); ok {
			frontier.Push(next)
		}
	}

	nav := s.Navigator
	if nav == nil {
		nav = &Navigator{Browser: s.Browser, Logger: s.Logger}
	}

	return &Run{
		s:        s,
		nav:      nav,
		opts:     opts,
		scope:    scope,
		frontier: frontier,
	}, nil
}

// Run is one crawl in progress. It is not safe for concurrent use.
type Run struct {
	s        *Scheduler
	nav      *Navigator
	opts     Options
	scope    *Scope
	frontier *Frontier
	results  []*tdassist.PageRecord
}

// Done reports whether the crawl has finished.
func (r *Run) Done() bool {
	return len(r.results) >= r.opts.PageBudget || r.frontier.Len() == 0
}

// Results returns the page records produced so far, in visit order.
func (r *Run) Results() []*tdassist.PageRecord {
	out := make([]*tdassist.PageRecord, len(r.results))
	copy(out, r.results)
	return out
}

// Frontier exposes the crawl's frontier for inspection.
func (r *Run) Frontier() *Frontier { return r.frontier }

// Step visits the next queued URL and returns its record. It returns
// (nil, nil) once the crawl is done and ctx.Err() if ctx is canceled
// before the page is dequeued.
func (r *Run) Step(ctx context.Context) (*tdassist.PageRecord, error) {
	if r.Done() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cur, _ := r.frontier.Peek()
	if r.s.RateLimiter != nil {
		if u, err := url.Parse(cur); err == nil {
			if err := r.s.RateLimiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
	}
	r.frontier.Pop()

	rec := r.visit(ctx, cur)
	r.results = append(r.results, rec)

	if r.s.Progress != nil {
		r.s.Progress(ProgressEvent{
			URL:     rec.URL,
			Visited: len(r.results),
			Budget:  r.opts.PageBudget,
			Queued:  r.frontier.Len(),
			Err:     rec.Error,
		})
	}
	return rec, nil
}

// visit navigates to cur, builds its record and enqueues its in-scope links.
// Links are enqueued before the record is returned, so they only affect
// pages visited later.
func (r *Run) visit(ctx context.Context, cur string) *tdassist.PageRecord {
	log := r.nav.logger()

	res := r.nav.Navigate(ctx, cur, NavOptions{
		Settle:  r.opts.Settle,
		Retries: DefaultRetries,
		Timeout: r.opts.NavTimeout,
	})

	rec := &tdassist.PageRecord{URL: cur}
	if status, ok := r.s.Browser.Status(cur); ok {
		rec.Status = &status
	}
	if !res.OK {
		rec.Error = res.Err
		log.Warn("page failed", "url", cur, "err", res.Err)
		return rec
	}

	title, err := r.s.Browser.Title(ctx)
	if err != nil {
		log.Debug("reading title", "url", cur, "err", err)
	}
	rec.Title = title

	html, err := r.s.Browser.HTML(ctx)
	if err != nil {
		log.Debug("reading DOM", "url", cur, "err", err)
	}
	if html != "" {
		rec.Text = tdassist.Truncate(r.s.Extractor.Extract(html), tdassist.MaxPageTextChars)
	}
	if rec.Text != "" {
		rec.ContentHash = ContentHash(rec.Text)
	}

	if r.opts.Screenshots {
		png, err := r.s.Browser.Screenshot(ctx)
		if err != nil {
			log.Debug("capturing screenshot", "url", cur, "err", err)
		} else {
			rec.ScreenshotPNG = png
			rec.Screenshot = ScreenshotName(r.now(), cur)
		}
	}

	added := 0
	for _, href := range r.s.Links.Hrefs(html) {
		next, ok := r.scope.Resolve(cur, href)
		if ok && r.frontier.Push(next) {
			added++
		}
	}
	log.Debug("page visited", "url", cur, "chars", len(rec.Text), "links", added)

	return rec
}

func (r *Run) now() time.Time {
	if r.s.Now != nil {
		return r.s.Now()
	}
	return time.Now()
}
