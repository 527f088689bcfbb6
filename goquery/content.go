// Package goquery extracts readable text and anchors from HTML snapshots
// using goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tdassist"
	"golang.org/x/net/html"
)

var _ tdassist.Extractor = (*ContentExtractor)(nil)

// BoilerplateSelector matches landmark containers dropped before text is
// read.
const BoilerplateSelector = "nav, footer, header, aside, menu"

// invisibleSelector matches elements a browser never renders as text.
const invisibleSelector = "script, style, noscript, template, iframe, svg, [hidden], [aria-hidden=true]"

// HeadingSelector matches all heading levels; goquery returns matches in
// document order.
const HeadingSelector = "h1, h2, h3, h4, h5, h6"

// ContentExtractor turns a DOM snapshot into a heading block followed by
// the visible body text. It parses its own copy of the document, so
// removing boilerplate never touches the live page.
type ContentExtractor struct{}

// NewContentExtractor creates a new ContentExtractor.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Extract returns the page text, or "" if the HTML cannot be parsed or
// holds no text.
func (e *ContentExtractor) Extract(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	doc.Find(BoilerplateSelector).Remove()
	doc.Find(invisibleSelector).Remove()

	var headings []string
	doc.Find(HeadingSelector).Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(collapseSpaces(sel.Text())); t != "" {
			headings = append(headings, t)
		}
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		return Compose(headings, "")
	}
	return Compose(headings, Normalize(VisibleText(body.Nodes[0])))
}

var (
	spaceAroundNewline = regexp.MustCompile(` *\n *`)
	horizontalSpace    = regexp.MustCompile(`[ \t]+`)
	repeatedNewlines   = regexp.MustCompile(`\n{2,}`)
)

// Normalize collapses runs of spaces and tabs to one space and runs of
// newlines to one newline, then trims the result.
func Normalize(s string) string {
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = spaceAroundNewline.ReplaceAllString(s, "\n")
	s = repeatedNewlines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// Compose joins headings and body as "<headings>\n\n<body>".
// Returns "" when both are empty.
func Compose(headings []string, body string) string {
	if len(headings) == 0 && body == "" {
		return ""
	}
	return strings.Join(headings, "\n") + "\n\n" + body
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// blockElements start and end on their own line when rendered.
var blockElements = map[string]bool{
	"address": true, "article": true, "blockquote": true, "br": true,
	"dd": true, "details": true, "dialog": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "hr": true, "li": true, "main": true,
	"ol": true, "p": true, "pre": true, "section": true, "summary": true,
	"table": true, "tbody": true, "thead": true, "tfoot": true, "tr": true,
	"ul": true, "caption": true, "legend": true, "option": true,
}

// VisibleText renders the text under n roughly the way a browser lays it
// out: inline whitespace collapses, block elements break lines, table
// cells are separated by tabs and <pre> keeps its formatting.
func VisibleText(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n, false)
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			b.WriteString(n.Data)
			return
		}
		writeCollapsed(b, n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if n.Type == html.ElementNode {
		switch n.Data {
		case "pre":
			pre = true
		case "td", "th":
			b.WriteByte('\t')
		case "img":
			if alt := attr(n, "alt"); alt != "" {
				writeCollapsed(b, alt)
			}
		}
	}
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c, pre)
	}
	if block {
		b.WriteByte('\n')
	}
}

// writeCollapsed writes s with every whitespace run turned into a single
// space, as CSS "white-space: normal" renders it.
func writeCollapsed(b *strings.Builder, s string) {
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
