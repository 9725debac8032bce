// Package segment splits bibliography text into individual citation strings.
package segment

import (
	"regexp"
	"strings"
)

// MinSegments is the acceptance threshold for the dot-numbered and
// author-year strategies. A split producing this many segments or fewer is
// rejected, so a single spurious match inside free text cannot be treated as
// a document-wide split.
const MinSegments = 5

// Strategy attempts one way of splitting cleaned bibliography text.
// It returns the entries and whether the split is usable.
type Strategy func(text string) ([]string, bool)

// strategies are ordered from most to least structurally reliable.
// The first strategy to yield a usable split wins.
var strategies = []Strategy{
	splitBracketNumbered,
	splitDotNumbered,
	splitAuthorYear,
	splitByLines,
}

var (
	controlChars = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f\u00ad]")
	spaceRuns    = regexp.MustCompile(`[ \t]+`)
	blankRuns    = regexp.MustCompile(`\n\s*\n+`)

	bracketMarker   = regexp.MustCompile(`\[\d+\]`)
	dotMarker       = regexp.MustCompile(`\n\s*\d+\.\s+`)
	authorMarker    = regexp.MustCompile(`\n\s*([A-Z][a-z]+,\s+[A-Z])`)
	lineBracketLead = regexp.MustCompile(`^\[\d+\]`)
	lineDotLead     = regexp.MustCompile(`^\d+\.`)
	lineAuthorLead  = regexp.MustCompile(`^[A-Z][a-z]+,`)
)

// Clean strips control characters and the soft hyphen, normalizes runs of
// horizontal whitespace to single spaces, and normalizes en/em dashes to the
// ASCII hyphen. Newlines survive because the split strategies depend on them.
func Clean(text string) string {
	text = controlChars.ReplaceAllString(strings.ReplaceAll(text, "\r\n", "\n"), "")
	text = strings.NewReplacer("–", "-", "—", "-").Replace(text)
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// Split segments already-cleaned bibliography text into raw entry strings.
// It always returns at least one entry for non-empty input.
func Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for _, s := range strategies {
		if entries, ok := s(text); ok {
			return entries
		}
	}
	return nil
}

// Segment cleans the text and splits it into raw entry strings.
func Segment(text string) []string {
	return Split(Clean(text))
}

// splitBracketNumbered captures the text between [n] markers. Any match at
// all makes the split usable.
func splitBracketNumbered(text string) ([]string, bool) {
	locs := bracketMarker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, false
	}

	var entries []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if entry := flatten(text[loc[1]:end]); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries, true
}

// splitDotNumbered splits on "1. " style markers at line starts. Accepted
// only above the MinSegments threshold.
func splitDotNumbered(text string) ([]string, bool) {
	parts := dotMarker.Split(text, -1)
	entries := collect(parts)
	return entries, len(entries) > MinSegments
}

// splitAuthorYear splits before "Lastname, F" patterns at line starts.
// Accepted only above the MinSegments threshold.
func splitAuthorYear(text string) ([]string, bool) {
	locs := authorMarker.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil, false
	}

	var parts []string
	prev := 0
	for _, loc := range locs {
		// loc[2] is where the author pattern itself begins; the newline and
		// indentation before it belong to the previous entry.
		parts = append(parts, text[prev:loc[2]])
		prev = loc[2]
	}
	parts = append(parts, text[prev:])

	entries := collect(parts)
	return entries, len(entries) > MinSegments
}

// splitByLines is the fallback: a line opens a new entry if it carries a
// bracket number, a dot number, or (once an entry is open) a "Lastname,"
// lead; otherwise it continues the current entry.
func splitByLines(text string) ([]string, bool) {
	var entries []string
	var current []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		startsNew := lineBracketLead.MatchString(line) ||
			lineDotLead.MatchString(line) ||
			(lineAuthorLead.MatchString(line) && len(current) > 0)

		if startsNew {
			if len(current) > 0 {
				entries = append(entries, strings.Join(current, " "))
			}
			current = []string{line}
		} else {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		entries = append(entries, strings.Join(current, " "))
	}

	return entries, true
}

func collect(parts []string) []string {
	var entries []string
	for _, p := range parts {
		if entry := flatten(p); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// flatten collapses an entry onto a single line.
func flatten(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
