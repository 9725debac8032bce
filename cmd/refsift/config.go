package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  refsift config                            # Show all config
  refsift config db-path                    # Get specific value
  refsift config db-path ~/refs/refs.db     # Set value
  refsift config export-format ris          # Set default export format

Keys:
  db-path          SQLite database location
  output-dir       Directory for export files
  export-format    Default export format (bibtex, ris, csv, json)
  workers          Batch worker pool size (1-32)
  min-confidence   Flag extracted references below this score (0-1)
  crossref-mailto  Contact address for the CrossRef polite pool
  api-rate-limit   Enrichment requests per second`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the config command response.
type ConfigResponse struct {
	DBPath         string  `json:"db_path"`
	OutputDir      string  `json:"output_dir"`
	ExportFormat   string  `json:"export_format"`
	Workers        int     `json:"workers"`
	MinConfidence  float64 `json:"min_confidence"`
	CrossrefMailto string  `json:"crossref_mailto"`
	APIRateLimit   float64 `json:"api_rate_limit"`
}

// UpdateResponse is the config set response.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("db-path:          %s\n", cfg.DBPath)
			fmt.Printf("output-dir:       %s\n", cfg.OutputDir)
			fmt.Printf("export-format:    %s\n", cfg.ExportFormat)
			fmt.Printf("workers:          %d\n", cfg.Workers)
			fmt.Printf("min-confidence:   %g\n", cfg.MinConfidence)
			fmt.Printf("crossref-mailto:  %s\n", cfg.CrossrefMailto)
			fmt.Printf("api-rate-limit:   %g\n", cfg.APIRateLimit)
		} else {
			outputJSON(ConfigResponse{
				DBPath:         cfg.DBPath,
				OutputDir:      cfg.OutputDir,
				ExportFormat:   cfg.ExportFormat,
				Workers:        cfg.Workers,
				MinConfidence:  cfg.MinConfidence,
				CrossrefMailto: cfg.CrossrefMailto,
				APIRateLimit:   cfg.APIRateLimit,
			})
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		var value string
		switch key {
		case "db-path":
			value = cfg.DBPath
		case "output-dir":
			value = cfg.OutputDir
		case "export-format":
			value = cfg.ExportFormat
		case "workers":
			value = strconv.Itoa(cfg.Workers)
		case "min-confidence":
			value = strconv.FormatFloat(cfg.MinConfidence, 'g', -1, 64)
		case "crossref-mailto":
			value = cfg.CrossrefMailto
		case "api-rate-limit":
			value = strconv.FormatFloat(cfg.APIRateLimit, 'g', -1, 64)
		default:
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]

	switch key {
	case "db-path":
		cfg.DBPath = config.ExpandTilde(value)
	case "output-dir":
		cfg.OutputDir = config.ExpandTilde(value)
	case "export-format":
		cfg.ExportFormat = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			exitWithError(ExitError, "workers must be a number: %s", value)
		}
		cfg.Workers = n
	case "min-confidence":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			exitWithError(ExitError, "min-confidence must be a number: %s", value)
		}
		cfg.MinConfidence = f
	case "crossref-mailto":
		cfg.CrossrefMailto = value
	case "api-rate-limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			exitWithError(ExitError, "api-rate-limit must be a number: %s", value)
		}
		cfg.APIRateLimit = f
	default:
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// normalizeKey converts key formats (db_path, DB-Path) to a consistent form.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
