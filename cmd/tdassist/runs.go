package main

import (
	"fmt"

	"github.com/fwojciec/tdassist"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, tdassist.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tdassist.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'tdassist discover' to create one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %3d pages  %s\n",
			r.ID, r.CreatedAt().Format("2006-01-02 15:04"), r.PagesCrawled, r.StartURL)
	}

	return nil
}
