package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/config"
	"github.com/refsift/refsift/internal/enrich"
	"github.com/refsift/refsift/internal/storage"
)

var (
	enrichLimit int
	enrichAll   bool
)

func init() {
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 25, "Maximum number of references to enrich with --all")
	enrichCmd.Flags().BoolVar(&enrichAll, "all", false, "Enrich stored references that have no DOI")
	rootCmd.AddCommand(enrichCmd)
}

var enrichCmd = &cobra.Command{
	Use:   "enrich [id]",
	Short: "Fill missing fields from doi.org and CrossRef",
	Long: `Fill missing reference fields (DOI, URL, publisher, ISSN, venue)
from external registries. Existing values are never overwritten.

Usage:
  refsift enrich 42
  refsift enrich --all --limit 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnrich,
}

// EnrichedRef is the enrich command per-reference result.
type EnrichedRef struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
	DOI    string `json:"doi,omitempty"`
	Error  string `json:"error,omitempty"`
}

// EnrichResponse is the enrich command response.
type EnrichResponse struct {
	Enriched int           `json:"enriched"`
	Refs     []EnrichedRef `json:"refs"`
}

func runEnrich(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !enrichAll {
		exitWithError(ExitError, "give a reference id or use --all")
	}

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		exitWithError(ExitConfigError, "opening database: %v", err)
	}
	defer db.Close()

	var refs []storage.StoredRef
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			exitWithError(ExitError, "invalid id: %s", args[0])
		}
		ref, err := db.GetByID(id)
		if err != nil {
			exitWithError(ExitError, "getting reference: %v", err)
		}
		if ref == nil {
			exitWithError(ExitDataError, "no reference with id %d", id)
		}
		refs = []storage.StoredRef{*ref}
	} else {
		refs, err = db.MissingDOI(enrichLimit)
		if err != nil {
			exitWithError(ExitError, "querying references: %v", err)
		}
		if len(refs) == 0 {
			exitWithError(ExitDataError, "no references missing a DOI")
		}
	}

	enricher := enrich.NewEnricher(
		enrich.NewResolver(),
		enrich.NewCrossRefClient(
			enrich.WithMailto(cfg.CrossrefMailto),
			enrich.WithRateLimit(cfg.APIRateLimit),
		),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resp := EnrichResponse{Refs: make([]EnrichedRef, 0, len(refs))}
	for i := range refs {
		if ctx.Err() != nil {
			break
		}
		r := &refs[i]
		entry := EnrichedRef{ID: r.ID, Title: r.Title}

		source, err := enricher.Enrich(ctx, &r.ParsedReference)
		if err != nil {
			entry.Error = err.Error()
			resp.Refs = append(resp.Refs, entry)
			continue
		}
		if source == "" {
			resp.Refs = append(resp.Refs, entry)
			continue
		}

		if err := db.UpdateEnrichment(r.ID, r.DOI, r.URL, r.Publisher, r.ISSN); err != nil {
			entry.Error = err.Error()
			resp.Refs = append(resp.Refs, entry)
			continue
		}
		entry.Source = source
		entry.DOI = r.DOI
		resp.Enriched++
		resp.Refs = append(resp.Refs, entry)
	}

	if humanOutput {
		for _, e := range resp.Refs {
			switch {
			case e.Error != "":
				outputHuman("#%d  %s\n    error: %s\n", e.ID, truncateString(e.Title, ListTitleMaxLen), e.Error)
			case e.Source == "":
				outputHuman("#%d  %s\n    no match\n", e.ID, truncateString(e.Title, ListTitleMaxLen))
			default:
				outputHuman("#%d  %s\n    %s", e.ID, truncateString(e.Title, ListTitleMaxLen), e.Source)
				if e.DOI != "" {
					outputHuman(" doi:%s", e.DOI)
				}
				outputHuman("\n")
			}
		}
		outputHuman("\nenriched %d of %d\n", resp.Enriched, len(resp.Refs))
		return nil
	}
	return outputJSON(resp)
}
