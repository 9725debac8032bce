package export

import (
	"fmt"
	"strings"

	"github.com/refsift/refsift/internal/reference"
)

// risTypes maps citation types to RIS TY values.
var risTypes = map[string]string{
	reference.TypeArticle:       "JOUR",
	reference.TypeInProceedings: "CONF",
	reference.TypeBook:          "BOOK",
	reference.TypePhDThesis:     "THES",
	reference.TypeTechReport:    "RPRT",
}

// ToRIS converts a reference to an RIS record.
func ToRIS(ref reference.ParsedReference) string {
	ty, ok := risTypes[ref.CitationType]
	if !ok {
		ty = "GEN"
	}

	var b strings.Builder
	tag := func(key, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("%s  - %s\n", key, value))
		}
	}

	tag("TY", ty)
	for _, a := range ref.Authors {
		tag("AU", a)
	}
	tag("TI", ref.Title)
	tag("PY", ref.Year)
	tag("JO", ref.Journal)
	tag("T2", ref.BookTitle)
	tag("VL", ref.Volume)
	tag("IS", ref.Issue)

	if ref.Pages != "" {
		start, end, found := strings.Cut(ref.Pages, "-")
		tag("SP", start)
		if found {
			tag("EP", end)
		}
	}

	tag("PB", ref.Publisher)
	tag("DO", ref.DOI)
	tag("UR", ref.URL)
	tag("SN", firstNonEmpty(ref.ISBN, ref.ISSN))
	b.WriteString("ER  - \n")

	return b.String()
}

// ToRISList converts multiple references to RIS.
func ToRISList(refs []reference.ParsedReference) string {
	var records []string
	for _, ref := range refs {
		records = append(records, ToRIS(ref))
	}
	return strings.Join(records, "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
