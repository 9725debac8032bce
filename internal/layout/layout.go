// Package layout reassembles positioned text blocks into reading order.
package layout

import (
	"sort"
	"strings"
)

// TextBlock is one positioned piece of page text from the rendering backend.
// Coordinates use a top-left origin so smaller Y means higher on the page.
type TextBlock struct {
	Text   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Page holds one page's blocks along with the page width.
type Page struct {
	Width  float64
	Blocks []TextBlock
}

// AssemblePage linearizes a page's blocks into a single reading-order string.
//
// Blocks left of the horizontal midpoint are read top to bottom, then blocks
// right of it. This is a fixed two-column heuristic: a single-column page with
// blocks past the midpoint gets a degraded ordering, which callers accept.
func AssemblePage(p Page) string {
	midpoint := p.Width / 2

	var left, right []TextBlock
	for _, b := range p.Blocks {
		if b.X < midpoint {
			left = append(left, b)
		} else {
			right = append(right, b)
		}
	}

	sortByY(left)
	sortByY(right)

	var lines []string
	for _, b := range append(left, right...) {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		lines = append(lines, text)
	}

	return strings.Join(lines, "\n")
}

// AssembleDocument concatenates all page texts, newline-separated.
// Pages that failed block extraction contribute an empty string.
func AssembleDocument(pages []Page) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = AssemblePage(p)
	}
	return strings.Join(texts, "\n")
}

func sortByY(blocks []TextBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Y < blocks[j].Y
	})
}
