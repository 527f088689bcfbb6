// Package qna turns crawled page text into modernization questions with a
// chat-completion model: redaction, chunking, prompting, response parsing
// and aggregation.
package qna

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tdassist"
)

// DefaultChunkDelay separates consecutive completion calls for one page.
const DefaultChunkDelay = 200 * time.Millisecond

// maxErrorLen bounds the error message recorded on a PageQnA.
const maxErrorLen = 200

// Generator produces the questions for one page at a time. Completion calls
// for a page are strictly sequential.
type Generator struct {
	completer  tdassist.Completer
	logger     *slog.Logger
	chunkDelay time.Duration
	chunkSize  int
	overlap    int
}

// Option configures a Generator.
type Option func(*Generator)

// WithChunkDelay sets the pause between completion calls for one page.
func WithChunkDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.chunkDelay = d
	}
}

// WithChunkSize sets the chunk window and overlap in characters.
func WithChunkSize(maxChars, overlap int) Option {
	return func(g *Generator) {
		g.chunkSize = maxChars
		g.overlap = overlap
	}
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator creates a Generator that sends prompts to c.
func NewGenerator(c tdassist.Completer, opts ...Option) *Generator {
	g := &Generator{
		completer:  c,
		logger:     slog.New(slog.DiscardHandler),
		chunkDelay: DefaultChunkDelay,
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate derives the questions for rec. The page text is redacted and
// chunked, each chunk is sent to the model in turn, and the answers are
// merged, deduplicated and capped per category. A response that cannot be
// parsed counts as empty. A failed completion call stops the page: the
// result then carries the error and no questions.
func (g *Generator) Generate(ctx context.Context, rec *tdassist.PageRecord, mode tdassist.Mode) *tdassist.PageQnA {
	out := &tdassist.PageQnA{
		URL:                rec.URL,
		Title:              rec.Title,
		DomainQuestions:    []tdassist.Question{},
		TechnicalQuestions: []tdassist.Question{},
	}

	var domain, technical []tdassist.Question
	chunks := Chunk(Redact(rec.Text), g.chunkSize, g.overlap)
	for i, chunk := range chunks {
		if i > 0 {
			if err := sleep(ctx, g.chunkDelay); err != nil {
				out.Error = tdassist.Truncate(err.Error(), maxErrorLen)
				return out
			}
		}

		resp, err := g.completer.Complete(ctx, BuildPrompt(rec.URL, rec.Title, chunk, mode))
		if err != nil {
			g.logger.Warn("completion failed", "url", rec.URL, "chunk", i+1, "chunks", len(chunks), "err", err)
			out.Error = tdassist.Truncate(err.Error(), maxErrorLen)
			return out
		}

		res, err := Parse(resp)
		if err != nil {
			g.logger.Debug("unusable model response", "url", rec.URL, "chunk", i+1, "err", err)
			continue
		}
		domain = append(domain, res.Domain...)
		technical = append(technical, res.Technical...)
	}

	if mode.WantsDomain() {
		out.DomainQuestions = Dedup(domain, tdassist.MaxQuestionsPerSection)
	}
	if mode.WantsTechnical() {
		out.TechnicalQuestions = Dedup(technical, tdassist.MaxQuestionsPerSection)
	}
	return out
}

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
