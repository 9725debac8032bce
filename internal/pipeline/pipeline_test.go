package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/refsift/refsift/internal/layout"
)

// fakeRenderer serves canned page text per path.
type fakeRenderer struct {
	texts map[string]string
	err   error
}

func (f *fakeRenderer) ExtractPages(path string) ([]layout.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	text, ok := f.texts[path]
	if !ok {
		return nil, errors.New("no such document")
	}
	return []layout.Page{{
		Width:  600,
		Blocks: []layout.TextBlock{{Text: text, X: 10, Y: 10}},
	}}, nil
}

const sampleDoc = `Some introduction text.
REFERENCES
[1] J. Smith, "A Great Paper," IEEE Trans., vol. 5, no. 2, pp. 10-20, 2020.
[2] K. Jones, "Another Paper," in Proc. Conference on Things, pp. 1-9, 2019.
[3] L. Brown, "A Third Study," Journal of Tests, vol. 1, 2018.`

func TestProcessDocument_Success(t *testing.T) {
	p := New(&fakeRenderer{texts: map[string]string{"doc.pdf": sampleDoc}})

	result := p.ProcessDocument("doc.pdf")
	if result.Failed() {
		t.Fatalf("expected success, got reason %q err %v", result.Reason, result.Err)
	}
	if len(result.Refs) != 3 {
		t.Fatalf("expected 3 references, got %d", len(result.Refs))
	}
	if result.Entries != 3 {
		t.Errorf("expected 3 segmented entries, got %d", result.Entries)
	}

	first := result.Refs[0]
	if first.Title != "A Great Paper" {
		t.Errorf("unexpected first title %q", first.Title)
	}
	if first.Year != "2020" {
		t.Errorf("unexpected first year %q", first.Year)
	}

	second := result.Refs[1]
	if second.BookTitle == "" {
		t.Errorf("expected conference entry to carry a booktitle, got journal %q", second.Journal)
	}
}

func TestProcessDocument_RenderError(t *testing.T) {
	p := New(&fakeRenderer{err: errors.New("broken file")})

	result := p.ProcessDocument("doc.pdf")
	if !result.Failed() {
		t.Fatal("expected failure")
	}
	if result.Err == nil {
		t.Error("expected render error to surface")
	}
	if !strings.Contains(result.Reason, "broken file") {
		t.Errorf("expected reason from error, got %q", result.Reason)
	}
}

func TestProcessDocument_NoReferencesSection(t *testing.T) {
	p := New(&fakeRenderer{texts: map[string]string{
		"doc.pdf": "A document without any citation list heading at all.",
	}})

	result := p.ProcessDocument("doc.pdf")
	if !result.Failed() {
		t.Fatal("expected failure")
	}
	if result.Err != nil {
		t.Errorf("missing section is a reason, not an error: %v", result.Err)
	}
	if result.Reason != "no references section found" {
		t.Errorf("unexpected reason %q", result.Reason)
	}
}

func TestProcessDocument_NothingParseable(t *testing.T) {
	p := New(&fakeRenderer{texts: map[string]string{
		"doc.pdf": "REFERENCES\n[1] x.\n[2] y.",
	}})

	result := p.ProcessDocument("doc.pdf")
	if !result.Failed() {
		t.Fatal("expected failure")
	}
	if result.Reason != "no references could be parsed" {
		t.Errorf("unexpected reason %q", result.Reason)
	}
	if len(result.Skipped) != 2 {
		t.Errorf("expected 2 skipped entries, got %d", len(result.Skipped))
	}
}

func TestProcessDocument_DeduplicatesEntries(t *testing.T) {
	doc := `REFERENCES
[1] J. Smith, "Identical Title Here," IEEE Trans., vol. 5, pp. 10-20, 2020.
[2] J. Smith, "Identical Title Here," 2020.`
	p := New(&fakeRenderer{texts: map[string]string{"doc.pdf": doc}})

	result := p.ProcessDocument("doc.pdf")
	if len(result.Refs) != 1 {
		t.Fatalf("expected duplicates collapsed to 1, got %d", len(result.Refs))
	}
	// The richer entry scores higher and survives.
	if result.Refs[0].Volume != "5" {
		t.Errorf("expected the fuller record to win, got %+v", result.Refs[0])
	}
}

func TestProcessBatch_KeepsInputOrder(t *testing.T) {
	p := New(&fakeRenderer{texts: map[string]string{
		"a.pdf": sampleDoc,
		"b.pdf": "no citation list here",
		"c.pdf": sampleDoc,
	}})

	results := p.ProcessBatch(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"}, 2)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Path != "a.pdf" || results[1].Path != "b.pdf" || results[2].Path != "c.pdf" {
		t.Errorf("results out of order: %v %v %v", results[0].Path, results[1].Path, results[2].Path)
	}
	if results[0].Failed() || results[2].Failed() {
		t.Error("expected a.pdf and c.pdf to succeed")
	}
	if !results[1].Failed() {
		t.Error("expected b.pdf to fail")
	}
}

func TestProcessBatch_OneBadDocumentDoesNotAbort(t *testing.T) {
	p := New(&fakeRenderer{texts: map[string]string{"good.pdf": sampleDoc}})

	results := p.ProcessBatch(context.Background(), []string{"missing.pdf", "good.pdf"}, 1)
	if !results[0].Failed() {
		t.Error("expected missing document to fail")
	}
	if results[1].Failed() {
		t.Errorf("expected good document to succeed, got %q", results[1].Reason)
	}
}

func TestProcessBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(&fakeRenderer{texts: map[string]string{"doc.pdf": sampleDoc}})
	results := p.ProcessBatch(ctx, []string{"doc.pdf", "doc.pdf"}, 1)

	for i, r := range results {
		if r.Err == nil {
			t.Errorf("result %d: expected cancellation error", i)
		}
		if r.Reason != "canceled before processing" {
			t.Errorf("result %d: unexpected reason %q", i, r.Reason)
		}
	}
}

func TestProcessBatch_WorkerCountFloor(t *testing.T) {
	p := New(&fakeRenderer{texts: map[string]string{"doc.pdf": sampleDoc}})

	results := p.ProcessBatch(context.Background(), []string{"doc.pdf"}, 0)
	if len(results) != 1 || results[0].Failed() {
		t.Error("expected batch to run with clamped worker count")
	}
}
