package tdassist

import "context"

// RunService persists discovery runs and the Q&A generated from them.
type RunService interface {
	// CreateRun stores a crawl result with its page records.
	// An ID is assigned if the result has none.
	CreateRun(ctx context.Context, run *CrawlResult) error

	// FindRunByID retrieves a run with its page records in crawl order.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*CrawlResult, error)

	// FindRuns retrieves runs, newest first, without page records.
	FindRuns(ctx context.Context, filter RunFilter) ([]*CrawlResult, error)

	// SaveQnA replaces the stored Q&A of a run.
	// Returns ENOTFOUND if the run does not exist.
	SaveQnA(ctx context.Context, runID string, bundle *QnABundle) error

	// FindQnA retrieves the stored Q&A of a run.
	// Returns ENOTFOUND if no Q&A was saved for the run.
	FindQnA(ctx context.Context, runID string) (*QnABundle, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// BundleWriter packages results as files for download or hand-off.
type BundleWriter interface {
	// WriteCrawl writes the JSON, CSV and screenshot files of a crawl.
	WriteCrawl(ctx context.Context, run *CrawlResult) error

	// WriteQnA writes the JSON and CSV files of a Q&A bundle.
	WriteQnA(ctx context.Context, bundle *QnABundle) error
}
