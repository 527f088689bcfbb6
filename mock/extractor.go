package mock

import "github.com/fwojciec/tdassist"

var _ tdassist.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of tdassist.Extractor.
type Extractor struct {
	ExtractFn func(html string) string
}

func (e *Extractor) Extract(html string) string {
	return e.ExtractFn(html)
}

var _ tdassist.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of tdassist.LinkExtractor.
type LinkExtractor struct {
	HrefsFn func(html string) []string
}

func (l *LinkExtractor) Hrefs(html string) []string {
	return l.HrefsFn(html)
}
