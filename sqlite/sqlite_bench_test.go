package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateRun compares storing a full crawl under WAL and rollback
// journal modes.
func BenchmarkCreateRun(b *testing.B) {
	const pagesPerRun = 100

	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkCreateRun(b, "DELETE", pagesPerRun)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkCreateRun(b, "WAL", pagesPerRun)
	})
}

func benchmarkCreateRun(b *testing.B, journalMode string, pagesPerRun int) {
	b.Helper()

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	_, err := db.ExecContext(ctx, "PRAGMA journal_mode = "+journalMode)
	require.NoError(b, err)

	svc := sqlite.NewRunService(db)
	pages := make([]*tdassist.PageRecord, pagesPerRun)
	for i := range pages {
		code := 200
		pages[i] = &tdassist.PageRecord{
			URL:    fmt.Sprintf("https://app.example.com/page%d", i),
			Status: &code,
			Title:  fmt.Sprintf("Page %d", i),
			Text:   fmt.Sprintf("Page %d\n\nOperators review orders above the approval threshold on page %d.", i, i),
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		run := &tdassist.CrawlResult{
			StartURL:     "https://app.example.com",
			PagesCrawled: pagesPerRun,
			Timestamp:    int64(1700000000 + i),
			Results:      pages,
		}
		if err := svc.CreateRun(ctx, run); err != nil {
			b.Fatal(err)
		}
	}
}
