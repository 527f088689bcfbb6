package mock

import (
	"context"
	"time"

	"github.com/fwojciec/tdassist"
)

var _ tdassist.Browser = (*Browser)(nil)

// Browser is a mock implementation of tdassist.Browser.
type Browser struct {
	NavigateFn   func(ctx context.Context, url string) error
	URLFn        func(ctx context.Context) (string, error)
	TitleFn      func(ctx context.Context) (string, error)
	HTMLFn       func(ctx context.Context) (string, error)
	FillFn       func(ctx context.Context, selector, value string) error
	ClickFn      func(ctx context.Context, selector string, awaitNav time.Duration) error
	PressEnterFn func(ctx context.Context, selector string) error
	WaitForFn    func(ctx context.Context, selector string, timeout time.Duration) error
	ScreenshotFn func(ctx context.Context) ([]byte, error)
	StatusFn     func(url string) (int, bool)
	CloseFn      func() error
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	return b.NavigateFn(ctx, url)
}

func (b *Browser) URL(ctx context.Context) (string, error) {
	return b.URLFn(ctx)
}

func (b *Browser) Title(ctx context.Context) (string, error) {
	return b.TitleFn(ctx)
}

func (b *Browser) HTML(ctx context.Context) (string, error) {
	return b.HTMLFn(ctx)
}

func (b *Browser) Fill(ctx context.Context, selector, value string) error {
	return b.FillFn(ctx, selector, value)
}

func (b *Browser) Click(ctx context.Context, selector string, awaitNav time.Duration) error {
	return b.ClickFn(ctx, selector, awaitNav)
}

func (b *Browser) PressEnter(ctx context.Context, selector string) error {
	return b.PressEnterFn(ctx, selector)
}

func (b *Browser) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	return b.WaitForFn(ctx, selector, timeout)
}

func (b *Browser) Screenshot(ctx context.Context) ([]byte, error) {
	return b.ScreenshotFn(ctx)
}

func (b *Browser) Status(url string) (int, bool) {
	return b.StatusFn(url)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
