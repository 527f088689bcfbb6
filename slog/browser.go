package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tdassist"
)

// Ensure LoggingBrowser implements tdassist.Browser.
var _ tdassist.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with debug logging of navigations and
// form interactions. Values typed into fields are never logged.
type LoggingBrowser struct {
	next   tdassist.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next tdassist.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Navigate logs the URL being loaded and delegates to the wrapped browser.
func (b *LoggingBrowser) Navigate(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		b.logger.Info("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Navigate(ctx, url)
}

// URL delegates to the wrapped browser.
func (b *LoggingBrowser) URL(ctx context.Context) (string, error) {
	return b.next.URL(ctx)
}

// Title delegates to the wrapped browser.
func (b *LoggingBrowser) Title(ctx context.Context) (string, error) {
	return b.next.Title(ctx)
}

// HTML delegates to the wrapped browser and logs the snapshot size.
func (b *LoggingBrowser) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("snapshot",
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.HTML(ctx)
}

// Fill logs the selector and the value length, never the value itself.
func (b *LoggingBrowser) Fill(ctx context.Context, selector, value string) (err error) {
	defer func(begin time.Time) {
		b.logger.Debug("fill",
			"selector", selector,
			"chars", len(value),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Fill(ctx, selector, value)
}

// Click logs the selector and delegates to the wrapped browser.
func (b *LoggingBrowser) Click(ctx context.Context, selector string, awaitNav time.Duration) (err error) {
	defer func(begin time.Time) {
		b.logger.Debug("click",
			"selector", selector,
			"await_nav", awaitNav,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Click(ctx, selector, awaitNav)
}

// PressEnter logs the selector and delegates to the wrapped browser.
func (b *LoggingBrowser) PressEnter(ctx context.Context, selector string) (err error) {
	defer func(begin time.Time) {
		b.logger.Debug("press enter",
			"selector", selector,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.PressEnter(ctx, selector)
}

// WaitFor logs the selector and delegates to the wrapped browser.
func (b *LoggingBrowser) WaitFor(ctx context.Context, selector string, timeout time.Duration) (err error) {
	defer func(begin time.Time) {
		b.logger.Debug("wait for",
			"selector", selector,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.WaitFor(ctx, selector, timeout)
}

// Screenshot delegates to the wrapped browser and logs the image size.
func (b *LoggingBrowser) Screenshot(ctx context.Context) (png []byte, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("screenshot",
			"bytes", len(png),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Screenshot(ctx)
}

// Status delegates to the wrapped browser.
func (b *LoggingBrowser) Status(url string) (int, bool) {
	return b.next.Status(url)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}
