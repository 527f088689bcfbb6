// Package fs writes crawl and Q&A bundles to the local filesystem.
package fs

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/tdassist"
)

// Bundle directory names inside the base directory.
const (
	CrawlBundleName = "discovery_results"
	QnABundleName   = "page_questions"
)

// ScreensDir is the bundle subdirectory holding screenshots.
const ScreensDir = "screens"

// Ensure BundleWriter implements tdassist.BundleWriter at compile time.
var _ tdassist.BundleWriter = (*BundleWriter)(nil)

// BundleWriter implements tdassist.BundleWriter with atomic update semantics.
// Files are written to a temporary directory that replaces the bundle
// directory only once every file is in place, so a reader never sees a
// partial bundle.
type BundleWriter struct {
	baseDir string
}

// NewBundleWriter creates a BundleWriter that places bundles under baseDir.
// A crawl lands in baseDir/discovery_results and Q&A in baseDir/page_questions.
func NewBundleWriter(baseDir string) *BundleWriter {
	return &BundleWriter{baseDir: baseDir}
}

// CrawlDir returns the directory a crawl bundle is written to.
func (w *BundleWriter) CrawlDir() string {
	return filepath.Join(w.baseDir, CrawlBundleName)
}

// QnADir returns the directory a Q&A bundle is written to.
func (w *BundleWriter) QnADir() string {
	return filepath.Join(w.baseDir, QnABundleName)
}

// WriteCrawl writes results.json, results.csv and screens/*.png.
func (w *BundleWriter) WriteCrawl(ctx context.Context, run *tdassist.CrawlResult) error {
	return w.write(ctx, w.CrawlDir(), func(dir string) error {
		if err := writeJSON(filepath.Join(dir, "results.json"), run); err != nil {
			return err
		}
		if err := writeCSV(filepath.Join(dir, "results.csv"), CrawlRows(run)); err != nil {
			return err
		}
		for _, r := range run.Results {
			if err := ctx.Err(); err != nil {
				return err
			}
			if r.Screenshot == "" || len(r.ScreenshotPNG) == 0 {
				continue
			}
			if err := os.MkdirAll(filepath.Join(dir, ScreensDir), 0755); err != nil {
				return err
			}
			path := filepath.Join(dir, ScreensDir, filepath.Base(r.Screenshot))
			if err := os.WriteFile(path, r.ScreenshotPNG, 0644); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteQnA writes questions.json and questions.csv.
func (w *BundleWriter) WriteQnA(ctx context.Context, bundle *tdassist.QnABundle) error {
	return w.write(ctx, w.QnADir(), func(dir string) error {
		if err := writeJSON(filepath.Join(dir, "questions.json"), bundle); err != nil {
			return err
		}
		return writeCSV(filepath.Join(dir, "questions.csv"), QnARows(bundle))
	})
}

// write fills a temporary sibling of finalDir and renames it into place.
// The temporary directory is removed if fill fails.
func (w *BundleWriter) write(ctx context.Context, finalDir string, fill func(dir string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmpDir := finalDir + ".tmp"
	if err := os.RemoveAll(tmpDir); err != nil {
		return err
	}
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return err
	}

	if err := fill(tmpDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(finalDir); err != nil {
		return err
	}
	return os.Rename(tmpDir, finalDir)
}

// CrawlRows projects a crawl into CSV rows, header first.
func CrawlRows(run *tdassist.CrawlResult) [][]string {
	rows := [][]string{{"url", "status", "title", "screenshot", "error"}}
	for _, r := range run.Results {
		var status, screenshot string
		if r.Status != nil {
			status = strconv.Itoa(*r.Status)
		}
		if r.Screenshot != "" {
			screenshot = ScreensDir + "/" + filepath.Base(r.Screenshot)
		}
		rows = append(rows, []string{r.URL, status, r.Title, screenshot, r.Error})
	}
	return rows
}

// QnARows projects a Q&A bundle into CSV rows with one row per question,
// header first. Domain questions of a page precede its technical ones.
func QnARows(bundle *tdassist.QnABundle) [][]string {
	rows := [][]string{{"url", "title", "section", "question", "answerHint", "difficulty", "tags"}}
	for _, item := range bundle.Items {
		for _, q := range item.DomainQuestions {
			rows = append(rows, questionRow(item, "domain", q))
		}
		for _, q := range item.TechnicalQuestions {
			rows = append(rows, questionRow(item, "technical", q))
		}
	}
	return rows
}

func questionRow(item *tdassist.PageQnA, section string, q tdassist.Question) []string {
	return []string{
		item.URL,
		item.Title,
		section,
		q.Question,
		q.AnswerHint,
		string(q.Difficulty),
		strings.Join(q.Tags, ","),
	}
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, append(b, '\n'), 0644)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
