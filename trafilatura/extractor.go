// Package trafilatura provides a main-content text extractor backed by
// go-trafilatura, for pages where landmark removal keeps too much chrome.
package trafilatura

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tdassist"
	tdgoquery "github.com/fwojciec/tdassist/goquery"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements tdassist.Extractor at compile time.
var _ tdassist.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main content of a page.
// Its output has the same shape as goquery.ContentExtractor: headings of
// the main content, a blank line, then the normalized content text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page's main content as text, or "" when nothing
// could be extracted.
func (e *Extractor) Extract(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil || result == nil {
		return ""
	}

	var headings []string
	if result.ContentNode != nil {
		goquery.NewDocumentFromNode(result.ContentNode).
			Find(tdgoquery.HeadingSelector).
			Each(func(_ int, sel *goquery.Selection) {
				if t := strings.Join(strings.Fields(sel.Text()), " "); t != "" {
					headings = append(headings, t)
				}
			})
	}

	return tdgoquery.Compose(headings, tdgoquery.Normalize(result.ContentText))
}
