// Package export renders parsed references to bibliographic file formats.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/refsift/refsift/internal/reference"
)

// ToBibTeX converts a reference to a BibTeX entry. The ordinal
// disambiguates citation keys within one export.
func ToBibTeX(ref reference.ParsedReference, ordinal int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", ref.CitationType, CiteKey(ref, ordinal)))

	if len(ref.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", escapeLatex(ref.AuthorString())))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(ref.Title)))

	if ref.Journal != "" {
		b.WriteString(fmt.Sprintf("  journal = {%s},\n", escapeLatex(ref.Journal)))
	}
	if ref.BookTitle != "" {
		b.WriteString(fmt.Sprintf("  booktitle = {%s},\n", escapeLatex(ref.BookTitle)))
	}

	if ref.Year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", ref.Year))
	}
	if ref.Volume != "" {
		b.WriteString(fmt.Sprintf("  volume = {%s},\n", ref.Volume))
	}
	if ref.Issue != "" {
		b.WriteString(fmt.Sprintf("  number = {%s},\n", ref.Issue))
	}
	if ref.Pages != "" {
		b.WriteString(fmt.Sprintf("  pages = {%s},\n", ref.Pages))
	}
	if ref.Publisher != "" {
		b.WriteString(fmt.Sprintf("  publisher = {%s},\n", escapeLatex(ref.Publisher)))
	}
	if ref.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", ref.DOI))
	}
	if ref.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", ref.URL))
	}
	if ref.ISBN != "" {
		b.WriteString(fmt.Sprintf("  isbn = {%s},\n", ref.ISBN))
	}
	if ref.ISSN != "" {
		b.WriteString(fmt.Sprintf("  issn = {%s},\n", ref.ISSN))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple references to BibTeX.
func ToBibTeXList(refs []reference.ParsedReference) string {
	var entries []string
	for i, ref := range refs {
		entries = append(entries, ToBibTeX(ref, i+1))
	}
	return strings.Join(entries, "\n")
}

var nonKeyChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// CiteKey derives a citation key from the first author's last name token,
// the year, and the entry's ordinal: "Smith2020-3".
func CiteKey(ref reference.ParsedReference, ordinal int) string {
	name := "ref"
	if len(ref.Authors) > 0 {
		fields := strings.Fields(ref.Authors[0])
		if len(fields) > 0 {
			if cleaned := nonKeyChars.ReplaceAllString(fields[len(fields)-1], ""); cleaned != "" {
				name = cleaned
			}
		}
	}
	return fmt.Sprintf("%s%s-%d", name, ref.Year, ordinal)
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
