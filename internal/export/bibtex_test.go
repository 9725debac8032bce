package export

import (
	"strings"
	"testing"

	"github.com/refsift/refsift/internal/reference"
)

func sampleRef() reference.ParsedReference {
	return reference.ParsedReference{
		Seq:          "3",
		Authors:      []string{"J. Smith"},
		Title:        "A Great Paper",
		Year:         "2020",
		Journal:      "IEEE Trans.",
		Volume:       "5",
		Issue:        "2",
		Pages:        "10-20",
		CitationType: reference.TypeArticle,
		Confidence:   0.8,
	}
}

func TestToBibTeX_Article(t *testing.T) {
	entry := ToBibTeX(sampleRef(), 1)

	if !strings.HasPrefix(entry, "@article{Smith2020-1,") {
		t.Errorf("unexpected entry head: %q", entry)
	}
	for _, want := range []string{
		"author = {J. Smith}",
		"title = {A Great Paper}",
		"journal = {IEEE Trans.}",
		"year = {2020}",
		"volume = {5}",
		"number = {2}",
		"pages = {10-20}",
	} {
		if !strings.Contains(entry, want) {
			t.Errorf("expected %q in entry:\n%s", want, entry)
		}
	}
	if strings.Contains(entry, "doi =") {
		t.Error("empty fields should be omitted")
	}
}

func TestToBibTeX_InProceedings(t *testing.T) {
	ref := sampleRef()
	ref.Journal = ""
	ref.BookTitle = "Proc. Conference on Things"
	ref.CitationType = reference.TypeInProceedings

	entry := ToBibTeX(ref, 1)
	if !strings.HasPrefix(entry, "@inproceedings{") {
		t.Errorf("unexpected entry head: %q", entry)
	}
	if !strings.Contains(entry, "booktitle = {Proc. Conference on Things}") {
		t.Errorf("expected booktitle in entry:\n%s", entry)
	}
	if strings.Contains(entry, "journal =") {
		t.Error("inproceedings entry should not carry a journal field")
	}
}

func TestToBibTeX_EscapesLatex(t *testing.T) {
	ref := sampleRef()
	ref.Title = "Costs & Benefits of 100% Coverage"

	entry := ToBibTeX(ref, 1)
	if !strings.Contains(entry, `Costs \& Benefits of 100\% Coverage`) {
		t.Errorf("expected escaped title, got:\n%s", entry)
	}
}

func TestCiteKey(t *testing.T) {
	ref := sampleRef()
	if key := CiteKey(ref, 3); key != "Smith2020-3" {
		t.Errorf("expected Smith2020-3, got %q", key)
	}

	ref.Authors = nil
	if key := CiteKey(ref, 1); key != "ref2020-1" {
		t.Errorf("expected ref fallback, got %q", key)
	}

	ref.Authors = []string{"Jean-Luc Picard"}
	if key := CiteKey(ref, 2); key != "Picard2020-2" {
		t.Errorf("expected last name token, got %q", key)
	}
}

func TestToBibTeXList_OrdinalsDisambiguate(t *testing.T) {
	refs := []reference.ParsedReference{sampleRef(), sampleRef()}

	out := ToBibTeXList(refs)
	if !strings.Contains(out, "Smith2020-1") || !strings.Contains(out, "Smith2020-2") {
		t.Errorf("expected distinct cite keys, got:\n%s", out)
	}
}
