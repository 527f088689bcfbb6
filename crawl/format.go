package crawl

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes a hash of page text using xxhash.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]+`)

// ScreenshotName derives a file name for a page screenshot from the capture
// time and the URL path, e.g. shot_1700000000000__orders_list.png.
func ScreenshotName(at time.Time, rawURL string) string {
	p := "home"
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	safe := unsafeNameChars.ReplaceAllString(p, "_")
	if len(safe) > 50 {
		safe = safe[:50]
	}
	if safe == "" {
		safe = "page"
	}
	return fmt.Sprintf("shot_%d_%s.png", at.UnixMilli(), safe)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
