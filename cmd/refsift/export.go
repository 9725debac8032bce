package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/export"
	"github.com/refsift/refsift/internal/reference"
	"github.com/refsift/refsift/internal/storage"
)

var (
	exportFormat string
	exportSource string
	exportOut    string
	exportLimit  int
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatBibTeX, "Export format: bibtex, ris, csv, json")
	exportCmd.Flags().StringVar(&exportSource, "source", "", "Only references from this document")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default stdout)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 10000, "Maximum number of references to export")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored references to a bibliographic format",
	Long: `Export stored references to a bibliographic format.

Usage:
  refsift export --format bibtex > refs.bib
  refsift export --format ris --source paper.pdf --out refs.ris`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if !export.ValidFormat(exportFormat) {
		exitWithError(ExitError, "unknown format: %s (valid: %s)", exportFormat, strings.Join(export.Formats, ", "))
	}

	db := openDB()
	defer db.Close()

	var stored []storage.StoredRef
	var err error
	if exportSource != "" {
		stored, err = db.BySource(exportSource)
	} else {
		stored, err = db.List(exportLimit, 0)
	}
	if err != nil {
		exitWithError(ExitError, "loading references: %v", err)
	}
	if len(stored) == 0 {
		exitWithError(ExitDataError, "no references to export")
	}

	refs := make([]reference.ParsedReference, len(stored))
	for i, s := range stored {
		refs[i] = s.ParsedReference
	}

	content, err := export.Render(refs, exportFormat)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if exportOut == "" {
		fmt.Print(content)
		return nil
	}

	if err := os.WriteFile(exportOut, []byte(content), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", exportOut, err)
	}
	if humanOutput {
		outputHuman("wrote %d references to %s\n", len(refs), exportOut)
		return nil
	}
	return outputJSON(StatusResponse{Status: "written", Path: exportOut})
}
