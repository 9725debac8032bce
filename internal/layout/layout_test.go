package layout

import (
	"strings"
	"testing"
)

func TestAssemblePage_TwoColumns(t *testing.T) {
	page := Page{
		Width: 600,
		Blocks: []TextBlock{
			{Text: "right top", X: 400, Y: 10},
			{Text: "left bottom", X: 50, Y: 200},
			{Text: "left top", X: 50, Y: 10},
			{Text: "right bottom", X: 400, Y: 200},
		},
	}

	got := AssemblePage(page)
	want := "left top\nleft bottom\nright top\nright bottom"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAssemblePage_MidpointBoundary(t *testing.T) {
	// A block exactly on the midpoint belongs to the right column.
	page := Page{
		Width: 600,
		Blocks: []TextBlock{
			{Text: "on midpoint", X: 300, Y: 10},
			{Text: "left of it", X: 299, Y: 10},
		},
	}

	got := AssemblePage(page)
	want := "left of it\non midpoint"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAssemblePage_StableOrderForEqualY(t *testing.T) {
	page := Page{
		Width: 600,
		Blocks: []TextBlock{
			{Text: "first", X: 10, Y: 50},
			{Text: "second", X: 100, Y: 50},
		},
	}

	got := AssemblePage(page)
	if got != "first\nsecond" {
		t.Errorf("equal-Y blocks should keep input order, got %q", got)
	}
}

func TestAssemblePage_DropsBlankBlocks(t *testing.T) {
	page := Page{
		Width: 600,
		Blocks: []TextBlock{
			{Text: "  ", X: 10, Y: 10},
			{Text: "kept", X: 10, Y: 20},
			{Text: "\t\n", X: 10, Y: 30},
		},
	}

	got := AssemblePage(page)
	if got != "kept" {
		t.Errorf("expected only non-blank text, got %q", got)
	}
}

func TestAssemblePage_Empty(t *testing.T) {
	if got := AssemblePage(Page{Width: 600}); got != "" {
		t.Errorf("expected empty string for empty page, got %q", got)
	}
}

func TestAssembleDocument_JoinsPages(t *testing.T) {
	pages := []Page{
		{Width: 600, Blocks: []TextBlock{{Text: "page one", X: 10, Y: 10}}},
		{Width: 600},
		{Width: 600, Blocks: []TextBlock{{Text: "page three", X: 10, Y: 10}}},
	}

	got := AssembleDocument(pages)
	if !strings.Contains(got, "page one") || !strings.Contains(got, "page three") {
		t.Errorf("expected both pages in output, got %q", got)
	}
	// The empty middle page still contributes a separator.
	if got != "page one\n\npage three" {
		t.Errorf("unexpected join: %q", got)
	}
}
