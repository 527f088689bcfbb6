// Package http reads an application's XML sitemaps so their pages can seed
// a crawl alongside the start URL.
package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/tdassist"
)

var _ tdassist.SitemapService = (*SitemapService)(nil)

// UserAgent identifies sitemap requests.
const UserAgent = "tdassist/1.0 (+sitemap discovery)"

// MaxSitemaps bounds how many sitemap documents one discovery reads,
// index files included.
const MaxSitemaps = 50

// SitemapService lists page URLs from the sitemaps of a start URL's origin.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService returns a SitemapService using client, or
// http.DefaultClient when client is nil.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the page URLs listed for startURL's origin, in
// document order and without duplicates. Sitemaps are taken from the
// robots.txt Sitemap lines, or /sitemap.xml when robots.txt names none.
// Index files are expanded breadth-first. A site without sitemaps yields an
// empty slice. Scoping the URLs is left to the caller.
func (s *SitemapService) DiscoverURLs(ctx context.Context, startURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" {
		return nil, tdassist.Errorf(tdassist.EINVALID, "invalid start URL %q", startURL)
	}
	origin := &url.URL{Scheme: start.Scheme, Host: start.Host}

	queue, announced, err := s.sitemapsOf(ctx, origin)
	if err != nil {
		return nil, err
	}

	pages := []string{}
	listed := make(map[string]bool)
	read := make(map[string]bool)
	for len(queue) > 0 && len(read) < MaxSitemaps {
		loc := queue[0]
		queue = queue[1:]
		if read[loc] {
			continue
		}
		read[loc] = true

		sm, err := s.readSitemap(ctx, loc)
		if !announced && len(read) == 1 && isStatus(err, http.StatusNotFound) {
			return pages, nil
		}
		if err != nil {
			return nil, err
		}
		queue = append(queue, sm.children...)
		for _, p := range sm.pages {
			if !listed[p] {
				listed[p] = true
				pages = append(pages, p)
			}
		}
	}
	return pages, nil
}

// sitemapsOf returns the sitemap locations robots.txt announces for
// origin, or the conventional /sitemap.xml with announced false.
func (s *SitemapService) sitemapsOf(ctx context.Context, origin *url.URL) ([]string, bool, error) {
	robots, err := s.get(ctx, origin.ResolveReference(&url.URL{Path: "/robots.txt"}).String())
	switch {
	case err == nil:
		defer robots.Close()
		if found := robotsSitemaps(robots, origin); len(found) > 0 {
			return found, true, nil
		}
	case ctx.Err() != nil:
		return nil, false, ctx.Err()
	}
	return []string{origin.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, false, nil
}

// robotsSitemaps collects the Sitemap lines of a robots.txt. Relative
// locations are resolved against origin.
func robotsSitemaps(r io.Reader, origin *url.URL) []string {
	var locs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(value))
		if err != nil || ref.String() == "" {
			continue
		}
		locs = append(locs, origin.ResolveReference(ref).String())
	}
	return locs
}

type sitemap struct {
	pages    []string
	children []string
}

// readSitemap fetches one urlset or sitemapindex document.
func (s *SitemapService) readSitemap(ctx context.Context, loc string) (*sitemap, error) {
	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(strings.ToLower(loc), ".gz") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("sitemap %s: %w", loc, err)
		}
		defer gz.Close()
		r = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("sitemap %s: no root element", loc)
	}

	sm := &sitemap{}
	switch root.Tag {
	case "sitemapindex":
		sm.children = locs(root, "sitemap")
	case "urlset":
		sm.pages = locs(root, "url")
	default:
		return nil, fmt.Errorf("sitemap %s: unexpected root <%s>", loc, root.Tag)
	}
	return sm, nil
}

// locs returns the non-empty <loc> values of root's entry children.
func locs(root *etree.Element, entry string) []string {
	var out []string
	for _, el := range root.SelectElements(entry) {
		if loc := el.SelectElement("loc"); loc != nil {
			if v := strings.TrimSpace(loc.Text()); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// get returns the body of a 200 response to a GET of target.
func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &statusError{code: resp.StatusCode, url: target}
	}
	return resp.Body, nil
}

type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}

func isStatus(err error, code int) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == code
}
