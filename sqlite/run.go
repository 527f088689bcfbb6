package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/tdassist"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tdassist.RunService = (*RunService)(nil)

// RunService implements tdassist.RunService using SQLite.
type RunService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db, Now: time.Now}
}

// CreateRun stores a crawl result and its page records in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *tdassist.CrawlResult) error {
	if run.StartURL == "" {
		return tdassist.Errorf(tdassist.EINVALID, "start URL required")
	}

	now := s.Now().UTC()
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Timestamp == 0 {
		run.Timestamp = now.Unix()
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, start_url, crawl_seed, pages_crawled, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartURL, run.CrawlSeed, run.PagesCrawled, run.Timestamp, now.Format(time.RFC3339))
	if err != nil {
		return err
	}

	for i, page := range run.Results {
		var status sql.NullInt64
		if page.Status != nil {
			status = sql.NullInt64{Int64: int64(*page.Status), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pages (id, run_id, position, url, status, title, text, content_hash, screenshot, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), run.ID, i, page.URL, status, page.Title, page.Text,
			page.ContentHash, page.Screenshot, page.Error)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run with its page records in crawl order.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*tdassist.CrawlResult, error) {
	var run tdassist.CrawlResult

	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_url, crawl_seed, pages_crawled, timestamp
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.StartURL, &run.CrawlSeed, &run.PagesCrawled, &run.Timestamp)

	if err == sql.ErrNoRows {
		return nil, tdassist.Errorf(tdassist.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, status, title, text, content_hash, screenshot, error
		FROM pages
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run.Results = []*tdassist.PageRecord{}
	for rows.Next() {
		var page tdassist.PageRecord
		var status sql.NullInt64
		if err := rows.Scan(&page.URL, &status, &page.Title, &page.Text,
			&page.ContentHash, &page.Screenshot, &page.Error); err != nil {
			return nil, err
		}
		if status.Valid {
			code := int(status.Int64)
			page.Status = &code
		}
		run.Results = append(run.Results, &page)
	}

	return &run, rows.Err()
}

// FindRuns retrieves runs newest first. Page records are not loaded.
func (s *RunService) FindRuns(ctx context.Context, filter tdassist.RunFilter) ([]*tdassist.CrawlResult, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_url, crawl_seed, pages_crawled, timestamp FROM runs")
	query.WriteString(" ORDER BY timestamp DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*tdassist.CrawlResult
	for rows.Next() {
		var run tdassist.CrawlResult
		if err := rows.Scan(&run.ID, &run.StartURL, &run.CrawlSeed, &run.PagesCrawled, &run.Timestamp); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
