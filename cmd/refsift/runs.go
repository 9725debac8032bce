package main

import (
	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/storage"
)

var runsLimit int

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show document processing history",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

// RunsResponse is the runs command response.
type RunsResponse struct {
	Count int           `json:"count"`
	Runs  []storage.Run `json:"runs"`
}

func runRuns(cmd *cobra.Command, args []string) error {
	db := openDB()
	defer db.Close()

	runs, err := db.Runs(runsLimit)
	if err != nil {
		exitWithError(ExitError, "listing runs: %v", err)
	}

	if humanOutput {
		for _, r := range runs {
			outputHuman("%s  %-8s %3d refs  %s  %s\n",
				r.CreatedAt, r.Status, r.RefsFound, formatDuration(r.Duration), r.Source)
			if r.Error != "" {
				outputHuman("    %s\n", r.Error)
			}
		}
		return nil
	}
	return outputJSON(RunsResponse{Count: len(runs), Runs: runs})
}
