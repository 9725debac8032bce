package main

import (
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	db := openDB()
	defer db.Close()

	stats, err := db.GetStats()
	if err != nil {
		exitWithError(ExitError, "computing stats: %v", err)
	}

	if humanOutput {
		outputHuman("references:      %d\n", stats.TotalRefs)
		outputHuman("documents:       %d\n", stats.TotalDocuments)
		outputHuman("with DOI:        %d\n", stats.WithDOI)
		outputHuman("avg confidence:  %.2f\n", stats.AvgConfidence)

		outputHuman("\nby type:\n")
		for _, t := range sortedKeys(stats.ByType) {
			outputHuman("  %-15s %d\n", t, stats.ByType[t])
		}

		outputHuman("\nby year:\n")
		for _, y := range sortedKeys(stats.ByYear) {
			outputHuman("  %-15s %d\n", y, stats.ByYear[y])
		}
		return nil
	}
	return outputJSON(stats)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
