// Package extract parses one raw citation string into a structured record.
//
// Every field is probed independently with regular expressions; each
// successful probe contributes a fixed weight to the record's confidence
// score. Absent fields add diagnostic notes instead of failing the entry.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/refsift/refsift/internal/reference"
)

// MinEntryLen is the shortest entry accepted as a real citation.
const MinEntryLen = 10

// Confidence weights for the scoring rules. The final score is the clamped
// sum of the weights whose probes matched.
const (
	scoreDOI     = 0.15
	scoreURL     = 0.05
	scoreTitle   = 0.25
	scoreYear    = 0.15
	scoreAuthors = 0.20
	scoreVolume  = 0.10
	scorePages   = 0.10
)

// quotePair is one open/close quote convention for quoted titles.
type quotePair struct {
	open, close string
	pattern     *regexp.Regexp
}

// quotePairs are tried in fixed order; the first pair found anywhere wins.
var quotePairs = []quotePair{
	newQuotePair(`"`, `"`),           // ASCII double
	newQuotePair("“", "”"), // curly double
	newQuotePair("'", "'"),           // ASCII single
	newQuotePair("‘", "’"), // curly single
}

func newQuotePair(open, close string) quotePair {
	p := regexp.QuoteMeta(open) + `([^` + regexp.QuoteMeta(close) + `]+)` + regexp.QuoteMeta(close)
	return quotePair{open: open, close: close, pattern: regexp.MustCompile(p)}
}

var (
	seqPattern  = regexp.MustCompile(`^\[(\d+)\]`)
	doiPattern  = regexp.MustCompile(`(?i)(?:doi:)?\s*(10\.\d{4,}/[^\s]+)`)
	urlPattern  = regexp.MustCompile(`https?://[^\s]+`)
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	volumePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)vol\.\s*(\d+)`),
		regexp.MustCompile(`(?i)volume\s+(\d+)`),
		regexp.MustCompile(`(?i)\bv\.\s*(\d+)`),
	}
	issuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)no\.\s*(\d+)`),
		regexp.MustCompile(`(?i)number\s+(\d+)`),
		regexp.MustCompile(`(?i)issue\s+(\d+)`),
		regexp.MustCompile(`(?i)\bn\.\s*(\d+)`),
	}
	pagesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)pp\.\s*([\d-]+)`),
		regexp.MustCompile(`(?i)pages?\s+([\d-]+)`),
		regexp.MustCompile(`,\s*(\d+)\s*-\s*(\d+)`),
	}

	andSplit      = regexp.MustCompile(`(?i)\s+and\s+`)
	trailingPunct = regexp.MustCompile(`[.,;:]+$`)
	whitespace    = regexp.MustCompile(`\s+`)

	venueYear   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	venueVolume = regexp.MustCompile(`(?i)vol\.\s*\d+`)
	venueIssue  = regexp.MustCompile(`(?i)no\.\s*\d+`)
	venuePages  = regexp.MustCompile(`(?i)pp\.\s*[\d-]+`)
)

// conferenceKeywords mark a venue as conference proceedings.
var conferenceKeywords = []string{"conference", "proc", "proceedings", "symposium", "workshop", "congress"}

// Parse extracts a structured record from one raw entry string. The ordinal
// is the 1-based position of the entry within the bibliography and seeds the
// sequence number when no bracket number is present.
//
// The second return value is false when the entry is too short to be a real
// citation.
func Parse(raw string, ordinal int) (reference.ParsedReference, bool) {
	text := strings.TrimSpace(raw)
	if len(text) < MinEntryLen {
		return reference.ParsedReference{}, false
	}

	ref := reference.ParsedReference{
		RawText:      text,
		Seq:          strconv.Itoa(ordinal),
		CitationType: reference.TypeArticle,
	}
	confidence := 0.0

	// Leading bracket number overrides the ordinal.
	if m := seqPattern.FindStringSubmatch(text); m != nil {
		ref.Seq = m[1]
		text = strings.TrimSpace(text[len(m[0]):])
	}

	if m := doiPattern.FindStringSubmatch(text); m != nil {
		ref.DOI = strings.TrimRight(m[1], ".,;")
		confidence += scoreDOI
	}

	if m := urlPattern.FindString(text); m != "" {
		ref.URL = strings.TrimRight(m, ".,;")
		confidence += scoreURL
	}

	title, pair := extractQuoted(text)
	if title != "" {
		ref.Title = title
		confidence += scoreTitle
	} else {
		ref.Title = "Untitled"
		ref.Notes = append(ref.Notes, "no quoted title found")
	}

	if m := yearPattern.FindString(text); m != "" {
		ref.Year = m
		confidence += scoreYear
	} else {
		ref.Notes = append(ref.Notes, "no year found")
	}

	authors := extractAuthors(text, title != "")
	if len(authors) > 0 {
		ref.Authors = authors
		confidence += scoreAuthors
	} else {
		ref.Notes = append(ref.Notes, "no authors found")
	}

	venue, isConference := extractVenue(text, pair)
	if isConference {
		ref.BookTitle = venue
	} else {
		ref.Journal = venue
	}

	ref.CitationType = classify(text, ref.BookTitle)

	ref.Volume = firstGroup(volumePatterns, text)
	ref.Issue = firstGroup(issuePatterns, text)
	ref.Pages = extractPages(text)

	if ref.Volume != "" {
		confidence += scoreVolume
	}
	if ref.Pages != "" {
		confidence += scorePages
	}

	ref.Confidence = clamp(confidence)
	return ref, true
}

// extractQuoted returns the first quoted span and the quote pair that
// matched, trying the pairs in fixed order.
func extractQuoted(text string) (string, *quotePair) {
	for i := range quotePairs {
		if m := quotePairs[i].pattern.FindStringSubmatch(text); m != nil {
			return cleanField(m[1]), &quotePairs[i]
		}
	}
	return "", nil
}

// extractAuthors parses the author list from the substring before the first
// quote character, or the whole entry when no title was found.
//
// Splitting on "and" is preferred; otherwise commas are used, which degrades
// "Lastname, F., Other, G." lists into alternating pseudo-author tokens.
// That limitation is deliberate and preserved.
func extractAuthors(text string, hasTitle bool) []string {
	part := text
	if hasTitle {
		for _, qp := range quotePairs {
			if idx := strings.Index(text, qp.open); idx != -1 {
				part = text[:idx]
				break
			}
		}
	}

	part = strings.Trim(part, " ,:;")
	part = seqPattern.ReplaceAllString(part, "")
	part = cleanField(part)
	if part == "" {
		return nil
	}

	var tokens []string
	if strings.Contains(strings.ToLower(part), " and ") {
		tokens = andSplit.Split(part, -1)
	} else if parts := strings.Split(part, ","); len(parts) >= 2 {
		tokens = parts
	} else {
		tokens = []string{part}
	}

	var authors []string
	for _, t := range tokens {
		t = cleanField(t)
		if len(t) > 2 {
			authors = append(authors, t)
		}
	}
	return authors
}

// extractVenue isolates the venue text after the title's closing quote,
// strips year/volume/issue/page fragments, and reports whether it names a
// conference.
func extractVenue(text string, pair *quotePair) (string, bool) {
	post := text
	if pair != nil {
		if idx := strings.LastIndex(text, pair.close); idx != -1 {
			post = strings.Trim(text[idx+len(pair.close):], " ,:;")
		}
	}

	post = venueYear.ReplaceAllString(post, "")
	post = venueVolume.ReplaceAllString(post, "")
	post = venueIssue.ReplaceAllString(post, "")
	post = venuePages.ReplaceAllString(post, "")
	post = cleanField(post)

	lower := strings.ToLower(post)
	for _, kw := range conferenceKeywords {
		if strings.Contains(lower, kw) {
			return post, true
		}
	}
	return post, false
}

// classify determines the citation type from the whole raw entry.
func classify(text, booktitle string) string {
	lower := strings.ToLower(text)

	if booktitle != "" || containsAny(lower, "conference", "proc", "symposium", "workshop") {
		return reference.TypeInProceedings
	}
	if containsAny(lower, "book", "edition", "isbn") {
		return reference.TypeBook
	}
	if containsAny(lower, "thesis", "dissertation") {
		return reference.TypePhDThesis
	}
	if strings.Contains(lower, "technical report") || strings.Contains(lower, "tech. rep") {
		return reference.TypeTechReport
	}
	return reference.TypeArticle
}

// extractPages probes the page patterns in priority order. The bare
// "<n>-<n>" form carries two groups that get joined with a hyphen.
func extractPages(text string) string {
	for _, p := range pagesPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 2 && m[2] != "" {
			return m[1] + "-" + m[2]
		}
		return m[1]
	}
	return ""
}

func firstGroup(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// cleanField strips trailing punctuation and collapses whitespace.
func cleanField(s string) string {
	s = trailingPunct.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
