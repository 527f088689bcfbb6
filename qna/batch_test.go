package qna_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/mock"
	"github.com/fwojciec/tdassist/qna"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoCompleter answers with one domain question naming the page URL found
// in the prompt.
func echoCompleter(calls *atomic.Int32) *mock.Completer {
	return &mock.Completer{CompleteFn: func(_ context.Context, prompt string) (string, error) {
		calls.Add(1)
		line := prompt[strings.Index(prompt, "Page URL: ")+len("Page URL: "):]
		url := line[:strings.Index(line, "\n")]
		return modelResponse([]string{"About " + url + "?"}, nil), nil
	}}
}

func longText(s string) string {
	return strings.Repeat(s+" ", 100)
}

func TestBatch_Run(t *testing.T) {
	t.Parallel()

	t.Run("keeps page order under concurrency", func(t *testing.T) {
		t.Parallel()

		var pages []*tdassist.PageRecord
		for _, p := range []string{"a", "b", "c", "d", "e", "f"} {
			pages = append(pages, &tdassist.PageRecord{URL: "https://app.test/" + p, Text: longText(p)})
		}
		var calls atomic.Int32
		b := &qna.Batch{
			Generator:   qna.NewGenerator(echoCompleter(&calls)),
			Mode:        tdassist.ModeBoth,
			MinChars:    10,
			Concurrency: 3,
		}

		bundle, err := b.Run(context.Background(), pages)

		require.NoError(t, err)
		require.Len(t, bundle.Items, len(pages))
		for i, item := range bundle.Items {
			assert.Equal(t, pages[i].URL, item.URL)
			assert.Equal(t, []string{"About " + pages[i].URL + "?"}, texts(item.DomainQuestions))
		}
		assert.Equal(t, int32(6), calls.Load())
	})

	t.Run("never exceeds the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		c := &mock.Completer{CompleteFn: func(context.Context, string) (string, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return "{}", nil
		}}
		var pages []*tdassist.PageRecord
		for _, p := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			pages = append(pages, &tdassist.PageRecord{URL: "https://app.test/" + p, Text: longText(p)})
		}
		b := &qna.Batch{Generator: qna.NewGenerator(c), Concurrency: 2}

		_, err := b.Run(context.Background(), pages)

		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("skips short pages without calling the model", func(t *testing.T) {
		t.Parallel()

		pages := []*tdassist.PageRecord{
			{URL: "https://app.test/short", Title: "Short", Text: "tiny"},
			{URL: "https://app.test/failed", Error: "timeout"},
			{URL: "https://app.test/long", Text: longText("long")},
		}
		var calls atomic.Int32
		b := &qna.Batch{Generator: qna.NewGenerator(echoCompleter(&calls)), MinChars: qna.DefaultMinChars}

		bundle, err := b.Run(context.Background(), pages)

		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
		assert.True(t, bundle.Items[0].Skipped)
		assert.Equal(t, "Short", bundle.Items[0].Title)
		assert.NotNil(t, bundle.Items[0].DomainQuestions)
		assert.True(t, bundle.Items[1].Skipped)
		assert.False(t, bundle.Items[2].Skipped)
	})

	t.Run("reuses questions for identical content", func(t *testing.T) {
		t.Parallel()

		pages := []*tdassist.PageRecord{
			{URL: "https://app.test/a", Title: "A", Text: longText("same"), ContentHash: "h1"},
			{URL: "https://app.test/b", Title: "B", Text: longText("same"), ContentHash: "h1"},
		}
		var calls atomic.Int32
		b := &qna.Batch{Generator: qna.NewGenerator(echoCompleter(&calls))}

		bundle, err := b.Run(context.Background(), pages)

		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, "https://app.test/b", bundle.Items[1].URL)
		assert.Equal(t, "B", bundle.Items[1].Title)
		assert.Equal(t, bundle.Items[0].DomainQuestions, bundle.Items[1].DomainQuestions)
	})

	t.Run("a failing page does not affect the others", func(t *testing.T) {
		t.Parallel()

		c := &mock.Completer{CompleteFn: func(_ context.Context, prompt string) (string, error) {
			if strings.Contains(prompt, "https://app.test/bad") {
				return "", tdassist.Errorf(tdassist.EINTERNAL, "model unavailable")
			}
			return modelResponse([]string{"Fine?"}, nil), nil
		}}
		pages := []*tdassist.PageRecord{
			{URL: "https://app.test/bad", Text: longText("bad")},
			{URL: "https://app.test/good", Text: longText("good")},
		}
		b := &qna.Batch{Generator: qna.NewGenerator(c), Concurrency: 2}

		bundle, err := b.Run(context.Background(), pages)

		require.NoError(t, err)
		assert.Contains(t, bundle.Items[0].Error, "model unavailable")
		assert.Empty(t, bundle.Items[1].Error)
		assert.Equal(t, []string{"Fine?"}, texts(bundle.Items[1].DomainQuestions))
	})

	t.Run("stamps the generation time and reports progress", func(t *testing.T) {
		t.Parallel()

		pages := []*tdassist.PageRecord{
			{URL: "https://app.test/a", Text: longText("a")},
			{URL: "https://app.test/b", Text: longText("b")},
		}
		var calls atomic.Int32
		var mu sync.Mutex
		var progress []int
		b := &qna.Batch{
			Generator: qna.NewGenerator(echoCompleter(&calls)),
			Now:       func() time.Time { return time.Unix(1700000000, 0) },
			Progress: func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				assert.Equal(t, 2, total)
				progress = append(progress, done)
			},
		}

		bundle, err := b.Run(context.Background(), pages)

		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), bundle.GeneratedAt)
		assert.Equal(t, []int{1, 2}, progress)
	})

	t.Run("fails when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls atomic.Int32
		b := &qna.Batch{Generator: qna.NewGenerator(echoCompleter(&calls))}

		_, err := b.Run(ctx, []*tdassist.PageRecord{{URL: "https://app.test/", Text: longText("a")}})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls.Load())
	})
}
