package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/trafilatura"
	"github.com/stretchr/testify/assert"
)

// Ensure Extractor implements tdassist.Extractor at compile time.
var _ tdassist.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/orders">Orders</a></nav>
<article>
<h1>Order Management</h1>
<p>Operators review every order above the approval threshold before it ships to the customer.</p>
<p>Rejected orders return to the sales queue with a mandatory comment explaining the decision.</p>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		got := trafilatura.NewExtractor().Extract(html)

		assert.Contains(t, got, "approval threshold")
		assert.Contains(t, got, "mandatory comment")
		assert.NotContains(t, got, "Copyright 2024")
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a></li>
<li><a href="/reports">Quarterly reports</a></li>
</ul>
</nav>
<main>
<h1>Main Content</h1>
<p>This paragraph contains the actual content we want, describing how invoices are reconciled.</p>
</main>
</body>
</html>`

		got := trafilatura.NewExtractor().Extract(html)

		assert.Contains(t, got, "actual content we want")
		assert.NotContains(t, got, "Quarterly reports")
	})

	t.Run("separates headings from content with a blank line", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Invoices</h1>
<p>Each invoice is matched against a purchase order and a goods receipt before payment is released.</p>
<h2>Exceptions</h2>
<p>Mismatched quantities are routed to the accounts payable team for manual review and approval.</p>
</article>
</body>
</html>`

		got := trafilatura.NewExtractor().Extract(html)

		assert.Contains(t, got, "\n\n")
		assert.Contains(t, got, "purchase order")
	})

	t.Run("returns empty string for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, trafilatura.NewExtractor().Extract(""))
	})
}
