package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/config"
	"github.com/refsift/refsift/internal/enrich"
	"github.com/refsift/refsift/internal/export"
	"github.com/refsift/refsift/internal/pdf"
	"github.com/refsift/refsift/internal/pipeline"
	"github.com/refsift/refsift/internal/storage"
)

var (
	extractWorkers int
	extractFormat  string
	extractOutDir  string
	extractNoSave  bool
	extractNoFile  bool
	extractEnrich  bool
)

func init() {
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "Worker pool size (default from config)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "Export format: bibtex, ris, csv, json (default from config)")
	extractCmd.Flags().StringVar(&extractOutDir, "out", "", "Output directory for export files (default from config)")
	extractCmd.Flags().BoolVar(&extractNoSave, "no-save", false, "Skip writing references to the database")
	extractCmd.Flags().BoolVar(&extractNoFile, "no-export", false, "Skip writing export files")
	extractCmd.Flags().BoolVar(&extractEnrich, "enrich", false, "Fill missing fields from external registries before storing")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>...",
	Short: "Extract references from one or more PDFs",
	Long: `Extract references from one or more PDFs.

Each document is rendered, its bibliography located and segmented, and every
citation parsed into structured fields with a confidence score. Results are
stored in the database and written as an export file per document.

Usage:
  refsift extract paper.pdf
  refsift extract --workers 8 --format ris papers/*.pdf
  refsift extract --no-save --no-export paper.pdf
  refsift extract --enrich paper.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

// DocumentSummary is the per-document portion of the extract response.
type DocumentSummary struct {
	Path       string  `json:"path"`
	References int     `json:"references"`
	Entries    int     `json:"entries"`
	Skipped    int     `json:"skipped"`
	Reason     string  `json:"reason,omitempty"`
	ExportFile string  `json:"export_file,omitempty"`
	Seconds    float64 `json:"seconds"`
}

// ExtractResponse is the extract command response.
type ExtractResponse struct {
	Documents  int               `json:"documents"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	References int               `json:"references"`
	Seconds    float64           `json:"seconds"`
	Results    []DocumentSummary `json:"results"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	workers := extractWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}
	format := extractFormat
	if format == "" {
		format = cfg.ExportFormat
	}
	if !export.ValidFormat(format) {
		exitWithError(ExitError, "unknown format: %s (valid: %s)", format, strings.Join(export.Formats, ", "))
	}
	outDir := extractOutDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	// Reject unreadable inputs before spinning up the pool.
	for _, path := range args {
		if err := pdf.Validate(path); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	}

	var db *storage.DB
	if !extractNoSave {
		db, err = storage.OpenDB(cfg.DBPath)
		if err != nil {
			exitWithError(ExitConfigError, "opening database: %v", err)
		}
		defer db.Close()
	}

	// Ctrl-C stops dispatching new documents; in-flight ones finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var enricher *enrich.Enricher
	if extractEnrich {
		enricher = enrich.NewEnricher(
			enrich.NewResolver(),
			enrich.NewCrossRefClient(
				enrich.WithMailto(cfg.CrossrefMailto),
				enrich.WithRateLimit(cfg.APIRateLimit),
			),
		)
	}

	start := time.Now()
	p := pipeline.New(pdf.NewBackend())
	results := p.ProcessBatch(ctx, args, workers)

	resp := ExtractResponse{Documents: len(results)}
	for _, r := range results {
		summary := DocumentSummary{
			Path:       r.Path,
			References: len(r.Refs),
			Entries:    r.Entries,
			Skipped:    len(r.Skipped),
			Reason:     r.Reason,
			Seconds:    r.Duration.Seconds(),
		}

		if r.Failed() {
			resp.Failed++
			if db != nil {
				db.AddRun(r.Path, 0, r.Duration, "failed", r.Reason)
			}
			resp.Results = append(resp.Results, summary)
			continue
		}

		resp.Succeeded++
		resp.References += len(r.Refs)

		if enricher != nil {
			// Best effort: a registry miss leaves the parsed fields as-is.
			for i := range r.Refs {
				if ctx.Err() != nil {
					break
				}
				enricher.Enrich(ctx, &r.Refs[i])
			}
		}

		if db != nil {
			if _, err := db.InsertRefs(filepath.Base(r.Path), r.Refs); err != nil {
				exitWithError(ExitError, "saving references for %s: %v", r.Path, err)
			}
			db.AddRun(r.Path, len(r.Refs), r.Duration, "success", "")
		}

		if !extractNoFile {
			outPath, err := writeExport(r, format, outDir)
			if err != nil {
				exitWithError(ExitError, "%v", err)
			}
			summary.ExportFile = outPath
		}

		resp.Results = append(resp.Results, summary)
	}
	resp.Seconds = time.Since(start).Seconds()

	if humanOutput {
		for _, s := range resp.Results {
			if s.Reason != "" {
				outputHuman("%-40s failed: %s\n", filepath.Base(s.Path), s.Reason)
				continue
			}
			outputHuman("%-40s %d references (%d entries, %d skipped)\n",
				filepath.Base(s.Path), s.References, s.Entries, s.Skipped)
		}
		outputHuman("\n%d/%d documents, %d references in %s\n",
			resp.Succeeded, resp.Documents, resp.References, formatDuration(time.Since(start)))
		return nil
	}

	return outputJSON(resp)
}

// writeExport renders one document's references and writes them next to the
// configured output directory as References_<stem>.<ext>.
func writeExport(r pipeline.DocumentResult, format, outDir string) (string, error) {
	content, err := export.Render(r.Refs, format)
	if err != nil {
		return "", err
	}

	stem := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
	outPath := filepath.Join(outDir, fmt.Sprintf("References_%s.%s", stem, export.Extension(format)))

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}
