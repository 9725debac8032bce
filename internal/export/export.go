package export

import (
	"fmt"

	"github.com/refsift/refsift/internal/reference"
)

// Supported export formats.
const (
	FormatBibTeX = "bibtex"
	FormatRIS    = "ris"
	FormatCSV    = "csv"
	FormatJSON   = "json"
)

// Formats lists the supported format names.
var Formats = []string{FormatBibTeX, FormatRIS, FormatCSV, FormatJSON}

// extensions maps formats to output file extensions.
var extensions = map[string]string{
	FormatBibTeX: "bib",
	FormatRIS:    "ris",
	FormatCSV:    "csv",
	FormatJSON:   "json",
}

// Render serializes references in the named format.
func Render(refs []reference.ParsedReference, format string) (string, error) {
	switch format {
	case FormatBibTeX:
		return ToBibTeXList(refs), nil
	case FormatRIS:
		return ToRISList(refs), nil
	case FormatCSV:
		return ToCSV(refs)
	case FormatJSON:
		return ToJSON(refs)
	default:
		return "", fmt.Errorf("unknown export format: %s (valid: %v)", format, Formats)
	}
}

// Extension returns the file extension for a format, defaulting to "bib".
func Extension(format string) string {
	if ext, ok := extensions[format]; ok {
		return ext
	}
	return "bib"
}

// ValidFormat reports whether the format name is supported.
func ValidFormat(format string) bool {
	_, ok := extensions[format]
	return ok
}
