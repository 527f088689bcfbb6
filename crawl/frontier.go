package crawl

import (
	"sync"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/bloom"
)

// Compile-time interface verification.
var _ tdassist.URLFrontier = (*Frontier)(nil)

// frontierFalsePositiveRate sizes the Bloom pre-check. A false positive
// only costs an extra map lookup.
const frontierFalsePositiveRate = 0.01

// Frontier is a FIFO URL queue with a seen-set. A URL is enqueued at most
// once over the frontier's lifetime; the seen-set only grows.
//
// Membership is exact: a Bloom filter answers "definitely new" cheaply and
// the map settles every "maybe seen". Frontier is safe for concurrent use.
type Frontier struct {
	mu     sync.Mutex
	filter *bloom.Filter
	seen   map[string]struct{}
	queue  []string
}

// NewFrontier creates a Frontier sized for n expected URLs.
func NewFrontier(n uint) *Frontier {
	return &Frontier{
		filter: bloom.NewFilter(max(n, 1), frontierFalsePositiveRate),
		seen:   make(map[string]struct{}, n),
	}
}

// Push enqueues url and marks it seen.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.filter.TestAndAdd(url) {
		if _, ok := f.seen[url]; ok {
			return false
		}
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the oldest queued URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return url, true
}

// Peek returns the oldest queued URL without removing it.
func (f *Frontier) Peek() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	return f.queue[0], true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has ever been enqueued.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seenLocked(url)
}

// SeenCount returns the number of distinct URLs ever enqueued.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

func (f *Frontier) seenLocked(url string) bool {
	if !f.filter.Test(url) {
		return false
	}
	_, ok := f.seen[url]
	return ok
}
