package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/tdassist"
	main "github.com/fwojciec/tdassist/cmd/tdassist"
	"github.com/fwojciec/tdassist/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with ID, date, page count and URL", func(t *testing.T) {
		t.Parallel()

		var gotFilter tdassist.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter tdassist.RunFilter) ([]*tdassist.CrawlResult, error) {
				gotFilter = filter
				return []*tdassist.CrawlResult{
					{ID: "run-2", StartURL: "https://crm.example.com/login", PagesCrawled: 12, Timestamp: 1700003600},
					{ID: "run-1", StartURL: "https://erp.example.com/", PagesCrawled: 40, Timestamp: 1700000000},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		err := (&main.RunsCmd{Limit: 5}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 5, gotFilter.Limit)
		output := stdout.String()
		assert.Contains(t, output, "run-2")
		assert.Contains(t, output, "https://crm.example.com/login")
		assert.Contains(t, output, " 12 pages")
		assert.Contains(t, output, "2023-11-14 22:13")
		assert.Contains(t, output, "run-1")
		assert.Less(t, bytes.Index(stdout.Bytes(), []byte("run-2")), bytes.Index(stdout.Bytes(), []byte("run-1")))
	})

	t.Run("shows helpful message when no runs exist", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs: &mock.RunService{
				FindRunsFn: func(_ context.Context, _ tdassist.RunFilter) ([]*tdassist.CrawlResult, error) {
					return nil, nil
				},
			},
		}

		require.NoError(t, (&main.RunsCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No runs found")
	})

	t.Run("returns error when FindRuns fails", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Runs: &mock.RunService{
				FindRunsFn: func(_ context.Context, _ tdassist.RunFilter) ([]*tdassist.CrawlResult, error) {
					return nil, errors.New("database is locked")
				},
			},
		}

		err := (&main.RunsCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}
