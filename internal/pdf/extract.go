// Package pdf is the document-rendering backend. It turns PDF pages into
// positioned text blocks for the layout reassembler.
package pdf

import (
	"fmt"
	"sort"

	"github.com/ledongthuc/pdf"

	"github.com/refsift/refsift/internal/layout"
)

// lineTolerance is the vertical distance (in points) within which two text
// spans are considered part of the same line.
const lineTolerance = 2.0

// Backend extracts positioned text blocks from PDF files.
type Backend struct{}

// NewBackend returns a PDF rendering backend.
func NewBackend() *Backend {
	return &Backend{}
}

// ExtractPages returns one layout.Page per document page. A page whose
// content stream cannot be decoded contributes an empty page; only failing
// to open the document at all is an error.
func (b *Backend) ExtractPages(filePath string) ([]layout.Page, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	pages := make([]layout.Page, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		pages = append(pages, extractPage(r.Page(i)))
	}

	return pages, nil
}

// extractPage builds a layout.Page from one PDF page. The content stream
// parser panics on some malformed streams; those pages degrade to empty.
func extractPage(page pdf.Page) (result layout.Page) {
	defer func() {
		if recover() != nil {
			result = layout.Page{}
		}
	}()

	if page.V.IsNull() {
		return layout.Page{}
	}

	width, height := pageSize(page)
	content := page.Content()

	blocks := groupLines(content.Text, height)
	return layout.Page{Width: width, Blocks: blocks}
}

// pageSize reads the MediaBox, falling back to US Letter when absent
// (MediaBox may be inherited from a parent node this parser doesn't walk).
func pageSize(page pdf.Page) (width, height float64) {
	width, height = 612, 792

	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return width, height
	}

	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if w > 0 {
		width = w
	}
	if h > 0 {
		height = h
	}
	return width, height
}

// groupLines clusters raw text spans into per-line blocks. PDF coordinates
// grow upward, so Y is flipped to the top-left origin the layout package
// expects.
func groupLines(texts []pdf.Text, pageHeight float64) []layout.TextBlock {
	if len(texts) == 0 {
		return nil
	}

	// Sort top-of-page first, then left to right within a line.
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if diff := sorted[i].Y - sorted[j].Y; diff > lineTolerance || diff < -lineTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var blocks []layout.TextBlock
	var line []pdf.Text

	flush := func() {
		if len(line) == 0 {
			return
		}
		blocks = append(blocks, buildBlock(line, pageHeight))
		line = nil
	}

	for _, t := range sorted {
		if len(line) > 0 {
			prevY := line[0].Y
			if t.Y < prevY-lineTolerance || t.Y > prevY+lineTolerance {
				flush()
			}
		}
		line = append(line, t)
	}
	flush()

	return blocks
}

// buildBlock joins one line's spans into a block, inserting spaces where the
// horizontal gap between spans indicates a word break.
func buildBlock(line []pdf.Text, pageHeight float64) layout.TextBlock {
	minX := line[0].X
	maxX := line[0].X + line[0].W
	fontSize := line[0].FontSize

	var text []byte
	prevEnd := line[0].X
	for i, t := range line {
		if i > 0 && t.X-prevEnd > wordGap(t.FontSize) {
			text = append(text, ' ')
		}
		text = append(text, t.S...)
		prevEnd = t.X + t.W

		if t.X < minX {
			minX = t.X
		}
		if t.X+t.W > maxX {
			maxX = t.X + t.W
		}
		if t.FontSize > fontSize {
			fontSize = t.FontSize
		}
	}

	return layout.TextBlock{
		Text:   string(text),
		X:      minX,
		Y:      pageHeight - line[0].Y,
		Width:  maxX - minX,
		Height: fontSize,
	}
}

// wordGap is the horizontal gap beyond which adjacent spans get a space.
func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1.0
	}
	return fontSize * 0.2
}
