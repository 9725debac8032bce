package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Full-text search over stored references",
	Long: `Full-text search over stored reference titles, authors and journals.

Usage:
  refsift search neural networks
  refsift search --limit 10 "transformer"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	db := openDB()
	defer db.Close()

	refs, err := db.Search(strings.Join(args, " "), searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		printRefsHuman(refs, SearchTitleMaxLen)
		return nil
	}
	return outputJSON(ListResponse{Count: len(refs), Refs: refs})
}
