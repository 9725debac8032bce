package export

import (
	"strings"
	"testing"

	"github.com/refsift/refsift/internal/reference"
)

func TestToRIS_Article(t *testing.T) {
	record := ToRIS(sampleRef())

	if !strings.HasPrefix(record, "TY  - JOUR\n") {
		t.Errorf("unexpected record head: %q", record)
	}
	for _, want := range []string{
		"AU  - J. Smith",
		"TI  - A Great Paper",
		"PY  - 2020",
		"JO  - IEEE Trans.",
		"VL  - 5",
		"IS  - 2",
		"SP  - 10",
		"EP  - 20",
	} {
		if !strings.Contains(record, want) {
			t.Errorf("expected %q in record:\n%s", want, record)
		}
	}
	if !strings.HasSuffix(record, "ER  - \n") {
		t.Errorf("record should end with ER tag: %q", record)
	}
}

func TestToRIS_SinglePage(t *testing.T) {
	ref := sampleRef()
	ref.Pages = "42"

	record := ToRIS(ref)
	if !strings.Contains(record, "SP  - 42") {
		t.Errorf("expected start page, got:\n%s", record)
	}
	if strings.Contains(record, "EP  -") {
		t.Errorf("single page should have no end page:\n%s", record)
	}
}

func TestToRIS_UnknownTypeFallsBackToGEN(t *testing.T) {
	ref := sampleRef()
	ref.CitationType = "misc"

	record := ToRIS(ref)
	if !strings.HasPrefix(record, "TY  - GEN\n") {
		t.Errorf("expected GEN fallback, got: %q", record)
	}
}

func TestToRIS_MultipleAuthors(t *testing.T) {
	ref := sampleRef()
	ref.Authors = []string{"J. Smith", "K. Jones"}

	record := ToRIS(ref)
	if strings.Count(record, "AU  - ") != 2 {
		t.Errorf("expected one AU line per author, got:\n%s", record)
	}
}

func TestToRISList_SeparatesRecords(t *testing.T) {
	out := ToRISList([]reference.ParsedReference{sampleRef(), sampleRef()})
	if strings.Count(out, "ER  - \n") != 2 {
		t.Errorf("expected 2 records, got:\n%s", out)
	}
}
