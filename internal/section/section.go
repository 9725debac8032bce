// Package section locates the bibliography region within document text.
package section

import "regexp"

// Region is a character-offset span into the document text.
// Start excludes the matched heading keyword; End excludes the closing
// keyword, or equals the document length if no closing section was found.
type Region struct {
	Start int
	End   int
}

// startPatterns are tried in priority order: the first pattern that matches
// anywhere in the text wins, even if a later pattern matches earlier. So
// "REFERENCES" beats "REFERENCE" regardless of position.
var startPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bREFERENCES\b`),
	regexp.MustCompile(`(?i)\bREFERENCE\b`),
	regexp.MustCompile(`(?i)\bBIBLIOGRAPHY\b`),
	regexp.MustCompile(`(?i)\bWORKS CITED\b`),
}

// endPatterns are checked independently; the earliest match by position wins,
// not the pattern order. This differs from the start-keyword policy on purpose.
var endPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bAPPENDIX\b`),
	regexp.MustCompile(`(?i)\bACKNOWLEDGMENT\b`),
	regexp.MustCompile(`(?i)\bACKNOWLEDGEMENT\b`),
}

// Locate finds the bibliography region in the document text.
// The second return value is false when no references heading exists.
func Locate(text string) (Region, bool) {
	start := -1
	for _, p := range startPatterns {
		if loc := p.FindStringIndex(text); loc != nil {
			start = loc[1]
			break
		}
	}
	if start == -1 {
		return Region{}, false
	}

	end := len(text)
	rest := text[start:]
	for _, p := range endPatterns {
		if loc := p.FindStringIndex(rest); loc != nil && start+loc[0] < end {
			end = start + loc[0]
		}
	}

	return Region{Start: start, End: end}, true
}
