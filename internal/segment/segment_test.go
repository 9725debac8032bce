package segment

import (
	"strings"
	"testing"
)

func TestClean_StripsControlAndSoftHyphen(t *testing.T) {
	got := Clean("hy­phen\x00ated\ttext")
	if got != "hyphenated text" {
		t.Errorf("expected %q, got %q", "hyphenated text", got)
	}
}

func TestClean_NormalizesDashes(t *testing.T) {
	got := Clean("pp. 10–20 and 30—40")
	if got != "pp. 10-20 and 30-40" {
		t.Errorf("expected ASCII hyphens, got %q", got)
	}
}

func TestClean_PreservesNewlines(t *testing.T) {
	got := Clean("line one\nline two\n\n\nline three")
	if got != "line one\nline two\nline three" {
		t.Errorf("expected newlines preserved and blanks collapsed, got %q", got)
	}
}

func TestSplit_BracketNumbered(t *testing.T) {
	text := "[1] A. Author, \"First Paper,\" 2020.\n" +
		"[2] B. Author, \"Second Paper,\" 2021."

	entries := Split(text)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if !strings.Contains(entries[0], "First Paper") {
		t.Errorf("unexpected first entry: %q", entries[0])
	}
	if !strings.Contains(entries[1], "Second Paper") {
		t.Errorf("unexpected second entry: %q", entries[1])
	}
}

func TestSplit_BracketEntriesSpanLines(t *testing.T) {
	text := "[1] A. Author, \"A Paper With\na Wrapped Title,\" 2020."

	entries := Split(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if strings.Contains(entries[0], "\n") {
		t.Errorf("entry should be flattened onto one line, got %q", entries[0])
	}
	if !strings.Contains(entries[0], "A Paper With a Wrapped Title") {
		t.Errorf("wrapped title should be rejoined, got %q", entries[0])
	}
}

func TestSplit_DotNumberedNeedsEnoughSegments(t *testing.T) {
	// Three dot-numbered entries stay below the threshold, so the line
	// fallback handles them instead.
	small := "1. First entry text here.\n2. Second entry text here.\n3. Third entry text here."
	entries := Split(small)
	if len(entries) != 3 {
		t.Fatalf("expected fallback to yield 3 entries, got %d: %v", len(entries), entries)
	}

	var b strings.Builder
	for i := 1; i <= 7; i++ {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", i%2))
		b.WriteString(string(rune('0'+i)) + ". Entry number with some text.")
	}
	entries = Split(strings.TrimSpace(b.String()))
	if len(entries) < 6 {
		t.Errorf("expected dot-numbered split above threshold, got %d entries", len(entries))
	}
}

func TestSplit_AuthorYear(t *testing.T) {
	names := []string{"Smith", "Jones", "Brown", "Davis", "Wilson", "Taylor", "Moore"}
	var lines []string
	for _, n := range names {
		lines = append(lines, n+", A. (2020). Some paper title. Journal.")
	}
	text := strings.Join(lines, "\n")

	entries := Split(text)
	if len(entries) != len(names) {
		t.Fatalf("expected %d entries, got %d: %v", len(names), len(entries), entries)
	}
	for i, n := range names {
		if !strings.HasPrefix(entries[i], n+",") {
			t.Errorf("entry %d should start with %q, got %q", i, n, entries[i])
		}
	}
}

func TestSplit_LineFallbackContinuation(t *testing.T) {
	// No markers at all: continuation lines attach to the open entry.
	text := "Some Institute. Annual report on\nthe state of things. 2020."

	entries := Split(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(entries), entries)
	}
	if !strings.Contains(entries[0], "report on the state") {
		t.Errorf("continuation line should be joined, got %q", entries[0])
	}
}

func TestSplit_LineFallbackAuthorLeadNeedsOpenEntry(t *testing.T) {
	// The first author-lead line opens the first entry rather than
	// terminating a nonexistent one.
	text := "Smith, J. One paper. 2019.\nJones, K. Another paper. 2020."

	entries := Split(text)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if !strings.HasPrefix(entries[0], "Smith,") || !strings.HasPrefix(entries[1], "Jones,") {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestSplit_Empty(t *testing.T) {
	if entries := Split("   \n  "); entries != nil {
		t.Errorf("expected nil for blank input, got %v", entries)
	}
}

func TestSegment_AuthorYearBibliography(t *testing.T) {
	// Raw extracted text, one entry per line, no numbering markers. The
	// cleanup step must leave the newlines in place or the author-year
	// strategy never sees its line anchors and everything collapses into
	// one giant entry.
	names := []string{"Smith", "Jones", "Brown", "Davis", "Wilson", "Taylor", "Moore"}
	var lines []string
	for _, n := range names {
		lines = append(lines, n+", A.\t(2020).  Some paper title. Journal.")
	}

	entries := Segment(strings.Join(lines, "\n"))
	if len(entries) != len(names) {
		t.Fatalf("expected %d entries, got %d: %v", len(names), len(entries), entries)
	}
	for i, n := range names {
		if !strings.HasPrefix(entries[i], n+",") {
			t.Errorf("entry %d should start with %q, got %q", i, n, entries[i])
		}
	}
}

func TestSegment_CleansBeforeSplitting(t *testing.T) {
	text := "[1]  A.  Author,  \"Pa­per,\"  2020."

	entries := Segment(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0], "Paper") {
		t.Errorf("soft hyphen should be removed, got %q", entries[0])
	}
	if strings.Contains(entries[0], "  ") {
		t.Errorf("space runs should collapse, got %q", entries[0])
	}
}
