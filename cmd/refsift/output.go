package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/refsift/refsift/internal/storage"
)

// Title truncation lengths by context.
const (
	ListTitleMaxLen   = 50 // Used in list command output
	SearchTitleMaxLen = 70 // Used in search result summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// printRefsHuman prints stored references in human-readable format.
func printRefsHuman(refs []storage.StoredRef, titleMaxLen int) {
	for _, r := range refs {
		fmt.Printf("%d. [%.2f] %s\n", r.ID, r.Confidence, truncateString(r.Title, titleMaxLen))
		line := r.AuthorString()
		if r.Year != "" {
			line = fmt.Sprintf("%s (%s)", line, r.Year)
		}
		if venue := r.Venue(); venue != "" {
			line = fmt.Sprintf("%s. %s", line, truncateString(venue, titleMaxLen))
		}
		fmt.Printf("   %s\n", line)
		if r.DOI != "" {
			fmt.Printf("   doi:%s\n", r.DOI)
		}
		fmt.Println()
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
