// Package reference defines the core domain types for parsed citations.
package reference

import (
	"regexp"
	"strings"
)

// Citation types assigned by the field extractor.
const (
	TypeArticle       = "article"
	TypeInProceedings = "inproceedings"
	TypeBook          = "book"
	TypePhDThesis     = "phdthesis"
	TypeTechReport    = "techreport"
)

// ParsedReference is one citation recovered from a document's bibliography.
// It is built once by the extractor and never mutated afterwards; the
// deduplicator selects between whole records, it does not merge fields.
type ParsedReference struct {
	RawText string `json:"raw_text"`
	Seq     string `json:"seq"` // Sequence number within the bibliography

	Authors   []string `json:"authors"`
	Title     string   `json:"title"`
	Year      string   `json:"year"` // 4-digit string, empty if not found
	Journal   string   `json:"journal,omitempty"`
	BookTitle string   `json:"booktitle,omitempty"`
	Volume    string   `json:"volume,omitempty"`
	Issue     string   `json:"issue,omitempty"`
	Pages     string   `json:"pages,omitempty"`
	Publisher string   `json:"publisher,omitempty"`

	// External identifiers
	DOI  string `json:"doi,omitempty"`
	URL  string `json:"url,omitempty"`
	ISBN string `json:"isbn,omitempty"`
	ISSN string `json:"issn,omitempty"`

	CitationType string  `json:"citation_type"`
	Confidence   float64 `json:"confidence"`

	// Diagnostic notes from extraction; non-fatal.
	Notes []string `json:"notes,omitempty"`
}

// AuthorString joins authors with " and " for export formats.
func (r ParsedReference) AuthorString() string {
	if len(r.Authors) == 0 {
		return ""
	}
	if len(r.Authors) == 1 {
		return r.Authors[0]
	}
	return strings.Join(r.Authors, " and ")
}

// Venue returns the journal or book title, whichever is set.
func (r ParsedReference) Venue() string {
	if r.Journal != "" {
		return r.Journal
	}
	return r.BookTitle
}

var yearFormat = regexp.MustCompile(`^(19|20)\d{2}$`)

// Validate returns a list of quality issues with the record.
// An empty list means the record looks complete.
func (r ParsedReference) Validate() []string {
	var issues []string

	if r.Title == "" || r.Title == "Untitled" {
		issues = append(issues, "missing title")
	}
	if len(r.Authors) == 0 {
		issues = append(issues, "missing authors")
	}
	if r.Year == "" {
		issues = append(issues, "missing year")
	} else if !yearFormat.MatchString(r.Year) {
		issues = append(issues, "invalid year format")
	}
	if r.Confidence < 0.3 {
		issues = append(issues, "low confidence score")
	}

	return issues
}
