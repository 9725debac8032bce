package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/refsift/refsift/internal/reference"
)

// csvHeader is the column order for CSV export.
var csvHeader = []string{
	"seq", "authors", "title", "year", "journal", "booktitle",
	"volume", "issue", "pages", "publisher", "doi", "url",
	"citation_type", "confidence",
}

// ToCSV renders references as CSV with a header row.
func ToCSV(refs []reference.ParsedReference) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, ref := range refs {
		row := []string{
			ref.Seq, ref.AuthorString(), ref.Title, ref.Year,
			ref.Journal, ref.BookTitle, ref.Volume, ref.Issue,
			ref.Pages, ref.Publisher, ref.DOI, ref.URL,
			ref.CitationType, fmt.Sprintf("%.2f", ref.Confidence),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV: %w", err)
	}
	return buf.String(), nil
}

// ToJSON renders references as indented JSON.
func ToJSON(refs []reference.ParsedReference) (string, error) {
	data, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding JSON: %w", err)
	}
	return string(data) + "\n", nil
}
