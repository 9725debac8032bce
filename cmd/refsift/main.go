// Package main provides the refsift CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	// Pick up CROSSREF_MAILTO and friends from a local .env if present
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refsift",
	Short: "Extract structured references from academic PDFs",
	Long: `refsift pulls the bibliography out of academic PDFs and parses each
citation into structured fields (authors, title, year, venue, identifiers)
with a per-record confidence score.

Parsed references are stored in a local SQLite database and can be exported
to BibTeX, RIS, CSV or JSON. All commands output JSON by default for easy
scripting; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
