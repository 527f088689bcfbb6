package tdassist

import (
	"context"
	"time"
)

// MaxPageTextChars caps the extracted text stored per page.
const MaxPageTextChars = 200_000

// PageRecord is the terminal outcome of visiting one URL during a crawl.
// It is created once, when the URL is dequeued, and never mutated afterwards.
//
// When Error is set the navigation failed and only URL, Status and Error are
// meaningful.
type PageRecord struct {
	URL         string `json:"url"`
	Status      *int   `json:"status"`
	Title       string `json:"title,omitempty"`
	Text        string `json:"text"`
	ContentHash string `json:"contentHash,omitempty"`
	Screenshot  string `json:"screenshot,omitempty"` // file name inside the bundle
	Error       string `json:"error,omitempty"`

	// ScreenshotPNG holds the captured image until it is packaged.
	ScreenshotPNG []byte `json:"-"`
}

// Failed reports whether navigation to the page failed.
func (r *PageRecord) Failed() bool {
	return r.Error != ""
}

// CrawlResult is the output bundle of one discovery run.
type CrawlResult struct {
	ID           string        `json:"runId,omitempty"`
	StartURL     string        `json:"startUrl"`
	CrawlSeed    string        `json:"crawlSeed"`
	PagesCrawled int           `json:"pagesCrawled"`
	Timestamp    int64         `json:"timestampEpochSeconds"`
	Results      []*PageRecord `json:"results"`
}

// CreatedAt returns the run timestamp as a time.Time.
func (r *CrawlResult) CreatedAt() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}

// Extractor turns a rendered DOM snapshot into normalized page text.
// Implementations degrade to "" rather than failing.
type Extractor interface {
	Extract(html string) string
}

// LinkExtractor enumerates the raw href values of anchor elements in
// document order.
type LinkExtractor interface {
	Hrefs(html string) []string
}

// URLFrontier manages a breadth-first crawl queue with deduplication.
type URLFrontier interface {
	// Push enqueues url and marks it seen.
	// Returns false if the URL has already been seen.
	Push(url string) bool

	// Pop returns the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has ever been enqueued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// SitemapService discovers page URLs listed in a site's sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the URLs listed in the sitemaps of baseURL's host.
	// Returns an empty slice (not nil) if no sitemaps are found.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
