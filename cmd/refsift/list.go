package main

import (
	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/config"
	"github.com/refsift/refsift/internal/storage"
)

var (
	listLimit  int
	listOffset int
	listSource string
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "Maximum number of results")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Starting position")
	listCmd.Flags().StringVar(&listSource, "source", "", "Only references from this document")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored references",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// ListResponse is the list command response.
type ListResponse struct {
	Count int                `json:"count"`
	Refs  []storage.StoredRef `json:"refs"`
}

func runList(cmd *cobra.Command, args []string) error {
	db := openDB()
	defer db.Close()

	var refs []storage.StoredRef
	var err error
	if listSource != "" {
		refs, err = db.BySource(listSource)
	} else {
		refs, err = db.List(listLimit, listOffset)
	}
	if err != nil {
		exitWithError(ExitError, "listing references: %v", err)
	}

	if humanOutput {
		printRefsHuman(refs, ListTitleMaxLen)
		return nil
	}
	return outputJSON(ListResponse{Count: len(refs), Refs: refs})
}

// openDB opens the configured database or exits with a config error.
func openDB() *storage.DB {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		exitWithError(ExitConfigError, "opening database: %v", err)
	}
	return db
}
