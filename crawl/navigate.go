package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tdassist"
)

// Navigation defaults.
const (
	DefaultNavTimeout = 12 * time.Second
	DefaultRetries    = 2

	// maxNavErrorLen bounds the error message kept on a failed navigation.
	maxNavErrorLen = 300
)

// NavOptions bounds a single Navigate call.
type NavOptions struct {
	// Settle is the pause after a successful navigation that lets
	// late-loading content render.
	Settle time.Duration

	// Retries is the number of additional attempts after the first.
	Retries int

	// Timeout bounds each attempt. Zero selects DefaultNavTimeout.
	Timeout time.Duration
}

// NavResult is the outcome of a Navigate call.
type NavResult struct {
	OK  bool
	Err string // last attempt's error, truncated
}

// BackoffFunc returns the pause before the given retry (1-based).
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff waits 500ms times the attempt number.
func LinearBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * 500 * time.Millisecond
}

// Navigator performs retried page navigation on a shared browser tab.
type Navigator struct {
	Browser tdassist.Browser
	Backoff BackoffFunc // nil selects LinearBackoff
	Logger  *slog.Logger
}

// Navigate loads url, trying up to opts.Retries+1 times. On success it
// pauses opts.Settle before returning. A failure is reported only after all
// attempts are exhausted; the tab is then left wherever the last attempt
// stopped.
func (n *Navigator) Navigate(ctx context.Context, url string, opts NavOptions) NavResult {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultNavTimeout
	}
	backoff := n.Backoff
	if backoff == nil {
		backoff = LinearBackoff
	}
	maxAttempts := max(opts.Retries, 0) + 1

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		navCtx, cancel := context.WithTimeout(ctx, timeout)
		err := n.Browser.Navigate(navCtx, url)
		cancel()
		if err == nil {
			if err := sleep(ctx, opts.Settle); err != nil {
				return NavResult{Err: tdassist.Truncate(err.Error(), maxNavErrorLen)}
			}
			return NavResult{OK: true}
		}
		lastErr = err

		// Don't wait after the last attempt
		if attempt == maxAttempts {
			break
		}

		n.logger().Debug("navigation retry",
			"url", url,
			"attempt", attempt+1,
			"err", err,
		)

		if err := sleep(ctx, backoff(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	return NavResult{Err: tdassist.Truncate(lastErr.Error(), maxNavErrorLen)}
}

func (n *Navigator) logger() *slog.Logger {
	if n.Logger == nil {
		return discardLogger
	}
	return n.Logger
}

var discardLogger = slog.New(slog.DiscardHandler)

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
