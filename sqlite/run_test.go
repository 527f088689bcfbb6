package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/tdassist"
	"github.com/fwojciec/tdassist/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func status(code int) *int { return &code }

func testRun() *tdassist.CrawlResult {
	return &tdassist.CrawlResult{
		StartURL:     "https://app.example.com/login",
		CrawlSeed:    "https://app.example.com/home",
		PagesCrawled: 3,
		Timestamp:    1700000000,
		Results: []*tdassist.PageRecord{
			{
				URL:         "https://app.example.com/home",
				Status:      status(200),
				Title:       "Home",
				Text:        "Dashboard\n\nWelcome back",
				ContentHash: "abc123",
				Screenshot:  "0001_app.example.com_home.png",
			},
			{
				URL:   "https://app.example.com/broken",
				Error: "navigation failed after 3 attempts",
			},
			{
				URL:    "https://app.example.com/orders",
				Status: status(404),
				Title:  "Not found",
			},
		},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns an ID and keeps the timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := testRun()

		require.NoError(t, svc.CreateRun(context.Background(), run))

		assert.NotEmpty(t, run.ID)
		assert.Equal(t, int64(1700000000), run.Timestamp)
	})

	t.Run("keeps a caller supplied ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := testRun()
		run.ID = "run-1"

		require.NoError(t, svc.CreateRun(context.Background(), run))
		assert.Equal(t, "run-1", run.ID)
	})

	t.Run("stamps the current time when timestamp is zero", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		svc.Now = func() time.Time { return time.Unix(1800000000, 0) }
		run := testRun()
		run.Timestamp = 0

		require.NoError(t, svc.CreateRun(context.Background(), run))
		assert.Equal(t, int64(1800000000), run.Timestamp)
	})

	t.Run("returns EINVALID without start URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), &tdassist.CrawlResult{})
		require.Error(t, err)
		assert.Equal(t, tdassist.EINVALID, tdassist.ErrorCode(err))
	})

	t.Run("rejects a duplicate ID without partial writes", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		first := testRun()
		first.ID = "dup"
		require.NoError(t, svc.CreateRun(ctx, first))

		second := testRun()
		second.ID = "dup"
		require.Error(t, svc.CreateRun(ctx, second))

		var pages int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&pages))
		assert.Equal(t, 3, pages)
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("returns the run with pages in crawl order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := testRun()
		require.NoError(t, svc.CreateRun(ctx, run))

		found, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)

		assert.Equal(t, run.ID, found.ID)
		assert.Equal(t, run.StartURL, found.StartURL)
		assert.Equal(t, run.CrawlSeed, found.CrawlSeed)
		assert.Equal(t, 3, found.PagesCrawled)
		assert.Equal(t, int64(1700000000), found.Timestamp)
		require.Len(t, found.Results, 3)

		home := found.Results[0]
		assert.Equal(t, "https://app.example.com/home", home.URL)
		require.NotNil(t, home.Status)
		assert.Equal(t, 200, *home.Status)
		assert.Equal(t, "Home", home.Title)
		assert.Equal(t, "Dashboard\n\nWelcome back", home.Text)
		assert.Equal(t, "abc123", home.ContentHash)
		assert.Equal(t, "0001_app.example.com_home.png", home.Screenshot)

		broken := found.Results[1]
		assert.Nil(t, broken.Status)
		assert.True(t, broken.Failed())

		require.NotNil(t, found.Results[2].Status)
		assert.Equal(t, 404, *found.Results[2].Status)
	})

	t.Run("returns empty results for a run without pages", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		run := &tdassist.CrawlResult{StartURL: "https://app.example.com", Timestamp: 1}
		require.NoError(t, svc.CreateRun(ctx, run))

		found, err := svc.FindRunByID(ctx, run.ID)
		require.NoError(t, err)
		assert.NotNil(t, found.Results)
		assert.Empty(t, found.Results)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		_, err := svc.FindRunByID(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, tdassist.ENOTFOUND, tdassist.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	createRuns := func(t *testing.T, svc *sqlite.RunService, n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			run := &tdassist.CrawlResult{
				ID:        fmt.Sprintf("run-%d", i),
				StartURL:  "https://app.example.com",
				Timestamp: int64(1700000000 + i),
			}
			require.NoError(t, svc.CreateRun(context.Background(), run))
		}
	}

	t.Run("returns newest first without pages", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		createRuns(t, svc, 3)

		runs, err := svc.FindRuns(context.Background(), tdassist.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "run-2", runs[0].ID)
		assert.Equal(t, "run-1", runs[1].ID)
		assert.Equal(t, "run-0", runs[2].ID)
		assert.Empty(t, runs[0].Results)
	})

	t.Run("respects limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		createRuns(t, svc, 5)

		runs, err := svc.FindRuns(context.Background(), tdassist.RunFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "run-3", runs[0].ID)
		assert.Equal(t, "run-2", runs[1].ID)
	})

	t.Run("accepts offset without limit", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		createRuns(t, svc, 3)

		runs, err := svc.FindRuns(context.Background(), tdassist.RunFilter{Offset: 2})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "run-0", runs[0].ID)
	})
}
