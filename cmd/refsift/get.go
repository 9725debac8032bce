package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one stored reference in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitWithError(ExitError, "invalid id: %s", args[0])
	}

	db := openDB()
	defer db.Close()

	ref, err := db.GetByID(id)
	if err != nil {
		exitWithError(ExitError, "getting reference: %v", err)
	}
	if ref == nil {
		exitWithError(ExitDataError, "no reference with id %d", id)
	}

	if humanOutput {
		outputHuman("#%d  %s\n", ref.ID, ref.Title)
		outputHuman("authors:    %s\n", ref.AuthorString())
		outputHuman("year:       %s\n", ref.Year)
		if venue := ref.Venue(); venue != "" {
			outputHuman("venue:      %s\n", venue)
		}
		if ref.Volume != "" || ref.Issue != "" || ref.Pages != "" {
			outputHuman("vol/no/pp:  %s/%s/%s\n", ref.Volume, ref.Issue, ref.Pages)
		}
		if ref.DOI != "" {
			outputHuman("doi:        %s\n", ref.DOI)
		}
		if ref.URL != "" {
			outputHuman("url:        %s\n", ref.URL)
		}
		outputHuman("type:       %s\n", ref.CitationType)
		outputHuman("confidence: %.2f\n", ref.Confidence)
		outputHuman("source:     %s\n", ref.Source)
		for _, n := range ref.Notes {
			outputHuman("note:       %s\n", n)
		}
		return nil
	}
	return outputJSON(ref)
}
