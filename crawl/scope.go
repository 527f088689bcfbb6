package crawl

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/tdassist"
)

// SameOrigin reports whether two URLs share scheme, hostname and port.
// A missing port is normalized to 80 for http and 443 otherwise, so
// http://h:80/x and http://h/x are the same origin.
func SameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return sameOrigin(ua, ub)
}

func sameOrigin(a, b *url.URL) bool {
	pa, ok := effectivePort(a)
	if !ok {
		return false
	}
	pb, ok := effectivePort(b)
	if !ok {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		pa == pb
}

func effectivePort(u *url.URL) (int, bool) {
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		return n, err == nil
	}
	if strings.EqualFold(u.Scheme, "http") {
		return 80, true
	}
	return 443, true
}

// PathPrefix returns the directory part of a URL's path: the path itself
// when it ends in "/", otherwise the path up to and including its last "/".
// A URL without a path yields "/".
func PathPrefix(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "/"
	}
	return pathPrefix(u.Path)
}

func pathPrefix(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "/"
	}
	return p[:i+1]
}

// ResolveLink resolves href against base and strips the fragment.
// The bool result is false for empty or unparseable links.
func ResolveLink(base, href string) (string, bool) {
	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	return resolveLink(b, href)
}

func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		// A bare fragment refers to the base document itself
		u := *base
		u.Fragment, u.RawFragment = "", ""
		return u.String(), true
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment, resolved.RawFragment = "", ""
	return resolved.String(), true
}

// Scope decides which discovered URLs a crawl may enqueue: same origin as
// the seed and, optionally, under the seed's directory prefix.
type Scope struct {
	seed         *url.URL
	prefix       string
	samePathOnly bool
}

// NewScope builds the scope of a crawl seeded at seedURL.
func NewScope(seedURL string, samePathOnly bool) (*Scope, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, tdassist.Errorf(tdassist.EINVALID, "invalid seed URL %q: %v", seedURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, tdassist.Errorf(tdassist.EINVALID, "seed URL %q must be absolute", seedURL)
	}
	return &Scope{seed: u, prefix: pathPrefix(u.Path), samePathOnly: samePathOnly}, nil
}

// Prefix returns the seed's directory prefix.
func (s *Scope) Prefix() string { return s.prefix }

// Allows reports whether rawURL is inside the scope.
func (s *Scope) Allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !sameOrigin(s.seed, u) {
		return false
	}
	if s.samePathOnly {
		p := u.Path
		if p == "" {
			p = "/"
		}
		return strings.HasPrefix(p, s.prefix)
	}
	return true
}

// Resolve resolves href against the page at base and reports whether the
// result is inside the scope.
func (s *Scope) Resolve(base, href string) (string, bool) {
	next, ok := ResolveLink(base, href)
	if !ok || !s.Allows(next) {
		return "", false
	}
	return next, true
}
