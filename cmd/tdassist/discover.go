package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/crawl"
	"github.com/fwojciec/tdassist/goquery"
	tdslog "github.com/fwojciec/tdassist/slog"
	"github.com/fwojciec/tdassist/trafilatura"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) (err error) {
	if !c.Authorized {
		fmt.Fprintln(deps.Stderr, "error: confirm you are authorized to test this application with --authorized")
		return tdassist.Errorf(tdassist.EUNAUTHORIZED, "authorization not confirmed")
	}

	profile, err := c.selectorProfile()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}

	startURL := strings.TrimSpace(c.URL)
	if startURL == "" {
		startURL = profile.LoginURL
	}
	if err := validateStartURL(startURL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}
	if c.MaxPages < 1 {
		err := tdassist.Errorf(tdassist.EINVALID, "--max-pages must be at least 1")
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}

	browser, err := deps.OpenBrowser(deps.Ctx, !c.Headful)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	b := tdslog.NewLoggingBrowser(browser, deps.Logger)
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	prober := &crawl.Prober{Browser: b, Logger: deps.Logger}
	login := prober.Login(deps.Ctx, startURL, crawl.LoginOptions{
		Username:   c.Username,
		Password:   c.Password,
		Profile:    profile,
		NavTimeout: c.NavTimeout,
	})
	if login.Attempted {
		fmt.Fprintf(deps.Stdout, "Login attempted, crawling from %s\n", login.URL)
	} else {
		fmt.Fprintf(deps.Stdout, "Crawling from %s\n", login.URL)
	}
	for _, w := range login.Warnings {
		fmt.Fprintf(deps.Stderr, "  warning: %s\n", w)
	}

	var extraSeeds []string
	if c.Sitemap {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, login.URL)
		if err != nil {
			deps.Logger.Warn("sitemap discovery failed", "url", login.URL, "err", err)
		}
		extraSeeds = urls
	}

	scheduler := &crawl.Scheduler{
		Browser:   b,
		Extractor: c.extractor(),
		Links:     goquery.NewLinkExtractor(),
		Logger:    deps.Logger,
		Now:       deps.Now,
		Progress: func(e crawl.ProgressEvent) {
			if e.Err != "" {
				fmt.Fprintf(deps.Stderr, "  [%d/%d] fail %s: %s\n", e.Visited, e.Budget, crawl.TruncateURL(e.URL, 80), e.Err)
				return
			}
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s (%d queued)\n", e.Visited, e.Budget, crawl.TruncateURL(e.URL, 80), e.Queued)
		},
	}
	if c.Rate > 0 {
		scheduler.RateLimiter = crawl.NewDomainLimiter(c.Rate)
	}

	records, crawlErr := scheduler.Crawl(deps.Ctx, login.URL, crawl.Options{
		PageBudget:   c.MaxPages,
		Settle:       c.Wait,
		SamePathOnly: c.SamePath,
		Screenshots:  c.Screenshots,
		NavTimeout:   c.NavTimeout,
		ExtraSeeds:   extraSeeds,
	})
	if crawlErr != nil && len(records) == 0 {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", tdassist.ErrorMessage(crawlErr))
		return crawlErr
	}

	// A canceled crawl still keeps the pages visited so far.
	result := &tdassist.CrawlResult{
		StartURL:     startURL,
		CrawlSeed:    login.URL,
		PagesCrawled: len(records),
		Timestamp:    deps.Now().Unix(),
		Results:      records,
	}

	if err := deps.Runs.CreateRun(deps.Ctx, result); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}
	if err := deps.NewBundleWriter(c.Out).WriteCrawl(deps.Ctx, result); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing bundle: %v\n", err)
		return err
	}

	failed := 0
	for _, r := range records {
		if r.Failed() {
			failed++
		}
	}
	fmt.Fprintf(deps.Stdout, "Run %s: crawled %d pages (%d failed)\n", result.ID, len(records), failed)
	fmt.Fprintf(deps.Stdout, "Next: tdassist qna %s\n", result.ID)

	return crawlErr
}

// selectorProfile loads --profile, if any, and applies the selector flags
// on top of it.
func (c *DiscoverCmd) selectorProfile() (tdassist.SelectorProfile, error) {
	var profile tdassist.SelectorProfile
	if c.Profile != "" {
		data, err := os.ReadFile(c.Profile)
		if err != nil {
			return profile, tdassist.Errorf(tdassist.EINVALID, "reading selector profile: %v", err)
		}
		if profile, err = tdassist.ParseSelectorProfile(data); err != nil {
			return profile, err
		}
	}
	return profile.Merge(tdassist.SelectorProfile{
		UsernameSelector:   c.UsernameSel,
		PasswordSelector:   c.PasswordSel,
		SubmitSelector:     c.SubmitSel,
		PostLoginIndicator: c.PostLoginIndicator,
	}), nil
}

func (c *DiscoverCmd) extractor() tdassist.Extractor {
	if c.Extractor == "main" {
		return trafilatura.NewExtractor()
	}
	return goquery.NewContentExtractor()
}

// validateStartURL requires an http or https URL.
func validateStartURL(u string) error {
	if u == "" {
		return tdassist.Errorf(tdassist.EINVALID, "start URL required (argument or profile login_url)")
	}
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return tdassist.Errorf(tdassist.EINVALID, "start URL must begin with http:// or https://")
	}
	return nil
}
