package mock

import (
	"context"

	"github.com/fwojciec/tdassist"
)

var _ tdassist.RunService = (*RunService)(nil)

// RunService is a mock implementation of tdassist.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *tdassist.CrawlResult) error
	FindRunByIDFn func(ctx context.Context, id string) (*tdassist.CrawlResult, error)
	FindRunsFn    func(ctx context.Context, filter tdassist.RunFilter) ([]*tdassist.CrawlResult, error)
	SaveQnAFn     func(ctx context.Context, runID string, bundle *tdassist.QnABundle) error
	FindQnAFn     func(ctx context.Context, runID string) (*tdassist.QnABundle, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *tdassist.CrawlResult) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*tdassist.CrawlResult, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter tdassist.RunFilter) ([]*tdassist.CrawlResult, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) SaveQnA(ctx context.Context, runID string, bundle *tdassist.QnABundle) error {
	return s.SaveQnAFn(ctx, runID, bundle)
}

func (s *RunService) FindQnA(ctx context.Context, runID string) (*tdassist.QnABundle, error) {
	return s.FindQnAFn(ctx, runID)
}

var _ tdassist.BundleWriter = (*BundleWriter)(nil)

// BundleWriter is a mock implementation of tdassist.BundleWriter.
type BundleWriter struct {
	WriteCrawlFn func(ctx context.Context, run *tdassist.CrawlResult) error
	WriteQnAFn   func(ctx context.Context, bundle *tdassist.QnABundle) error
}

func (w *BundleWriter) WriteCrawl(ctx context.Context, run *tdassist.CrawlResult) error {
	return w.WriteCrawlFn(ctx, run)
}

func (w *BundleWriter) WriteQnA(ctx context.Context, bundle *tdassist.QnABundle) error {
	return w.WriteQnAFn(ctx, bundle)
}
