package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/tdassist"
)

// Heuristic selector chains, most specific first.
var (
	UsernameSelectors = []string{
		`input[name="username"]`,
		`input[id="username"]`,
		`input[name*="user"]`,
		`input[id*="user"]`,
		`input[type="email"]`,
		`input[name="email"]`,
		`input[id="email"]`,
		`input[name*="mail"]`,
		`input[type="text"]`,
	}
	PasswordSelectors = []string{
		`input[type="password"]`,
		`input[name*="pass"]`,
		`input[id*="pass"]`,
	}
	SubmitSelectors = []string{
		`button[type="submit"]`,
		`input[type="submit"]`,
		`button[name*="login"]`,
		`button[id*="login"]`,
	}
)

// Login defaults.
const (
	DefaultIndicatorTimeout = 12 * time.Second
	DefaultSelectorTimeout  = 5 * time.Second
	loginSettle             = 400 * time.Millisecond
	loginFinalSettle        = 800 * time.Millisecond
	loginRetries            = 1
)

// LoginOptions configures a login attempt.
type LoginOptions struct {
	Username string
	Password string
	Profile  tdassist.SelectorProfile

	// NavTimeout bounds the initial navigation and the wait for the
	// navigation triggered by submitting the form.
	NavTimeout time.Duration

	// IndicatorTimeout bounds the wait for Profile.PostLoginIndicator.
	IndicatorTimeout time.Duration

	// SelectorTimeout bounds the wait for each explicit profile selector
	// to appear before it is filled.
	SelectorTimeout time.Duration
}

// LoginResult reports a login attempt.
//
// Attempted means credentials were entered, not that the site accepted them.
// URL is where the tab ended up and is the crawl seed either way.
type LoginResult struct {
	Attempted bool
	URL       string
	Warnings  []string
}

// Prober attempts a single-factor form login, either through explicit
// selectors or through heuristic selector chains.
type Prober struct {
	Browser   tdassist.Browser
	Navigator *Navigator
	Logger    *slog.Logger

	// FinalSettle overrides the pause applied before reading the final URL.
	FinalSettle *time.Duration
}

// Login navigates to startURL and, when both credentials are present,
// fills and submits the login form. Every failure is non-fatal.
func (p *Prober) Login(ctx context.Context, startURL string, opts LoginOptions) LoginResult {
	nav := p.Navigator
	if nav == nil {
		nav = &Navigator{Browser: p.Browser, Logger: p.Logger}
	}

	res := nav.Navigate(ctx, startURL, NavOptions{
		Settle:  loginSettle,
		Retries: loginRetries,
		Timeout: opts.NavTimeout,
	})
	if !res.OK {
		p.logger().Warn("login page unreachable", "url", startURL, "err", res.Err)
		return LoginResult{URL: p.currentURL(ctx, startURL), Warnings: []string{"start URL unreachable: " + res.Err}}
	}

	if opts.Username == "" || opts.Password == "" {
		return LoginResult{URL: p.currentURL(ctx, startURL)}
	}

	result := LoginResult{Attempted: true}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		result.Warnings = append(result.Warnings, msg)
		p.logger().Warn("login", "msg", msg)
	}

	if opts.Profile.HasCredentialSelectors() {
		p.loginWithProfile(ctx, opts, warn)
	} else {
		p.loginWithHeuristics(ctx, opts, warn)
	}

	if indicator := opts.Profile.PostLoginIndicator; indicator != "" {
		timeout := opts.IndicatorTimeout
		if timeout <= 0 {
			timeout = DefaultIndicatorTimeout
		}
		if err := p.Browser.WaitFor(ctx, indicator, timeout); err != nil {
			warn("post-login indicator %q not seen: %v", indicator, err)
		}
	}

	settle := loginFinalSettle
	if p.FinalSettle != nil {
		settle = *p.FinalSettle
	}
	_ = sleep(ctx, settle)

	result.URL = p.currentURL(ctx, startURL)
	return result
}

func (p *Prober) loginWithProfile(ctx context.Context, opts LoginOptions, warn func(string, ...any)) {
	prof := opts.Profile
	timeout := opts.SelectorTimeout
	if timeout <= 0 {
		timeout = DefaultSelectorTimeout
	}
	// Explicit selectors may belong to a form rendered after load. A
	// selector that never shows up is reported by the fill below.
	for _, sel := range []string{prof.UsernameSelector, prof.PasswordSelector} {
		if err := p.Browser.WaitFor(ctx, sel, timeout); err != nil {
			p.logger().Debug("waiting for login field", "selector", sel, "err", err)
		}
	}

	if err := p.Browser.Fill(ctx, prof.UsernameSelector, opts.Username); err != nil {
		warn("username selector %q: %v", prof.UsernameSelector, err)
	}
	if err := p.Browser.Fill(ctx, prof.PasswordSelector, opts.Password); err != nil {
		warn("password selector %q: %v", prof.PasswordSelector, err)
	}

	if prof.SubmitSelector != "" {
		err := p.Browser.Click(ctx, prof.SubmitSelector, navTimeout(opts))
		if err == nil {
			return
		}
		p.logger().Debug("submit click did not navigate", "selector", prof.SubmitSelector, "err", err)
	}
	if err := p.Browser.PressEnter(ctx, prof.PasswordSelector); err != nil {
		warn("submitting via Enter: %v", err)
	}
}

func (p *Prober) loginWithHeuristics(ctx context.Context, opts LoginOptions, warn func(string, ...any)) {
	_, userOK := FirstMatch(UsernameSelectors, func(sel string) error {
		return p.Browser.Fill(ctx, sel, opts.Username)
	})
	passSel, passOK := FirstMatch(PasswordSelectors, func(sel string) error {
		return p.Browser.Fill(ctx, sel, opts.Password)
	})
	if !userOK || !passOK {
		warn("login form not found (username=%t password=%t)", userOK, passOK)
		return
	}

	if sel, ok := FirstMatch(SubmitSelectors, func(sel string) error {
		return p.Browser.Click(ctx, sel, navTimeout(opts))
	}); ok {
		p.logger().Debug("login submitted", "selector", sel)
		return
	}
	if err := p.Browser.PressEnter(ctx, passSel); err != nil {
		warn("submitting via Enter: %v", err)
	}
}

// currentURL returns the tab's URL, or fallback when the tab is not on a
// web page (about:blank, chrome-error://).
func (p *Prober) currentURL(ctx context.Context, fallback string) string {
	u, err := p.Browser.URL(ctx)
	if err != nil || !isWebURL(u) {
		return fallback
	}
	return u
}

func isWebURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (p *Prober) logger() *slog.Logger {
	if p.Logger == nil {
		return discardLogger
	}
	return p.Logger
}

func navTimeout(opts LoginOptions) time.Duration {
	if opts.NavTimeout <= 0 {
		return DefaultNavTimeout
	}
	return opts.NavTimeout
}

// FirstMatch tries each selector in order and stops at the first one for
// which try succeeds. It returns that selector and true, or "" and false if
// every attempt failed.
func FirstMatch(selectors []string, try func(selector string) error) (string, bool) {
	for _, sel := range selectors {
		if err := try(sel); err == nil {
			return sel, true
		}
	}
	return "", false
}
