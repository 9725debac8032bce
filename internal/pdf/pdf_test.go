package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestValidate_MissingFile(t *testing.T) {
	err := Validate(filepath.Join(t.TempDir(), "nope.pdf"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("expected missing-file error, got %v", err)
	}
}

func TestValidate_WrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.txt")
	if err := os.WriteFile(path, []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Validate(path)
	if err == nil || !strings.Contains(err.Error(), "not a PDF") {
		t.Errorf("expected extension error, got %v", err)
	}
}

func TestValidate_ExtensionCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.PDF")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	// Upper-case extension passes the name check and fails later, on
	// content. The library's own parse error also says "not a PDF file",
	// so distinguish by the wrapper prefix.
	err := Validate(path)
	if err == nil || !strings.Contains(err.Error(), "corrupted PDF") {
		t.Errorf("expected content error, got %v", err)
	}
}

func TestValidate_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := Validate(path)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty-file error, got %v", err)
	}
}

func TestValidate_CorruptedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 but not really"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Validate(path); err == nil {
		t.Error("expected error for corrupted content")
	}
}

func TestExtractPages_UnreadableFile(t *testing.T) {
	backend := NewBackend()
	if _, err := backend.ExtractPages(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for unreadable file")
	}
}

func TestGroupLines_ClustersWithinTolerance(t *testing.T) {
	texts := []pdf.Text{
		{S: "World", X: 60, Y: 700, W: 30, FontSize: 10},
		{S: "Hello", X: 10, Y: 701, W: 30, FontSize: 10},
		{S: "Below", X: 10, Y: 650, W: 30, FontSize: 10},
	}

	blocks := groupLines(texts, 792)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 line blocks, got %d", len(blocks))
	}
	if !strings.Contains(blocks[0].Text, "Hello") || !strings.Contains(blocks[0].Text, "World") {
		t.Errorf("expected near-equal Y spans on one line, got %q", blocks[0].Text)
	}
	if blocks[1].Text != "Below" {
		t.Errorf("unexpected second block %q", blocks[1].Text)
	}
	// Top-of-page spans come first after the Y flip.
	if blocks[0].Y >= blocks[1].Y {
		t.Errorf("expected flipped coordinates, got %.1f then %.1f", blocks[0].Y, blocks[1].Y)
	}
}

func TestGroupLines_Empty(t *testing.T) {
	if blocks := groupLines(nil, 792); blocks != nil {
		t.Errorf("expected nil for no spans, got %v", blocks)
	}
}

func TestBuildBlock_InsertsWordGaps(t *testing.T) {
	line := []pdf.Text{
		{S: "Hel", X: 10, Y: 700, W: 15, FontSize: 10},
		{S: "lo", X: 25, Y: 700, W: 10, FontSize: 10},
		{S: "world", X: 45, Y: 700, W: 25, FontSize: 10},
	}

	block := buildBlock(line, 792)
	if block.Text != "Hello world" {
		t.Errorf("expected gap-based spacing, got %q", block.Text)
	}
	if block.X != 10 {
		t.Errorf("unexpected block X %.1f", block.X)
	}
	if block.Y != 92 {
		t.Errorf("expected flipped Y 92, got %.1f", block.Y)
	}
	if block.Width != 60 {
		t.Errorf("unexpected width %.1f", block.Width)
	}
}

func TestWordGap(t *testing.T) {
	if got := wordGap(10); got != 2.0 {
		t.Errorf("expected 2.0 for 10pt font, got %.1f", got)
	}
	if got := wordGap(0); got != 1.0 {
		t.Errorf("expected 1.0 fallback, got %.1f", got)
	}
}
