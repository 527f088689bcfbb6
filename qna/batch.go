package qna

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/tdassist"
	"golang.org/x/sync/errgroup"
)

// DefaultMinChars is the shortest page text worth sending to the model.
const DefaultMinChars = 500

// Batch generates questions for every page of a crawl.
type Batch struct {
	Generator *Generator
	Mode      tdassist.Mode

	// MinChars skips pages with less extracted text. The skipped page still
	// gets an item, marked Skipped.
	MinChars int

	// Concurrency bounds how many pages are processed at once. Values
	// below 1 mean 1.
	Concurrency int

	// Progress, if set, is called after each generated page. Calls are
	// serialized.
	Progress func(done, total int)

	Now func() time.Time
}

// Run returns one item per page, in page order. Pages whose text has the
// same content hash are generated once; later pages reuse the questions
// of the first. Run only fails if ctx is canceled.
func (b *Batch) Run(ctx context.Context, pages []*tdassist.PageRecord) (*tdassist.QnABundle, error) {
	items := make([]*tdassist.PageQnA, len(pages))

	// first maps a content hash to the index of the page generated for it
	first := make(map[string]int)
	var jobs []int
	reuse := make(map[int]int)
	for i, p := range pages {
		if p.Text == "" || utf8.RuneCountInString(p.Text) < b.MinChars {
			items[i] = &tdassist.PageQnA{
				URL:                p.URL,
				Title:              p.Title,
				DomainQuestions:    []tdassist.Question{},
				TechnicalQuestions: []tdassist.Question{},
				Skipped:            true,
			}
			continue
		}
		if p.ContentHash != "" {
			if j, ok := first[p.ContentHash]; ok {
				reuse[i] = j
				continue
			}
			first[p.ContentHash] = i
		}
		jobs = append(jobs, i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Concurrency, 1))
	var (
		mu   sync.Mutex
		done int
	)
	for _, i := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			items[i] = b.Generator.Generate(gctx, pages[i], b.Mode)
			mu.Lock()
			defer mu.Unlock()
			done++
			if b.Progress != nil {
				b.Progress(done, len(jobs))
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, j := range reuse {
		src := items[j]
		items[i] = &tdassist.PageQnA{
			URL:                pages[i].URL,
			Title:              pages[i].Title,
			DomainQuestions:    append([]tdassist.Question{}, src.DomainQuestions...),
			TechnicalQuestions: append([]tdassist.Question{}, src.TechnicalQuestions...),
			Error:              src.Error,
		}
	}

	return &tdassist.QnABundle{
		GeneratedAt: b.now().Unix(),
		Items:       items,
	}, nil
}

func (b *Batch) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}
