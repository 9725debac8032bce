// Package pipeline chains the extraction stages for whole documents and
// runs batches of documents on a bounded worker pool.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/refsift/refsift/internal/dedupe"
	"github.com/refsift/refsift/internal/extract"
	"github.com/refsift/refsift/internal/layout"
	"github.com/refsift/refsift/internal/reference"
	"github.com/refsift/refsift/internal/section"
	"github.com/refsift/refsift/internal/segment"
)

// Renderer produces positioned text blocks for each page of a document.
// The PDF backend implements it; tests supply fakes.
type Renderer interface {
	ExtractPages(path string) ([]layout.Page, error)
}

// EntryResult records the outcome of parsing one segmented entry.
type EntryResult struct {
	Ref     *reference.ParsedReference `json:"ref,omitempty"`
	Skipped bool                       `json:"skipped,omitempty"`
	Reason  string                     `json:"reason,omitempty"`
}

// DocumentResult is the outcome of processing one document. A document that
// yields no references still gets a Reason string instead of an error, so
// one bad input never aborts a batch.
type DocumentResult struct {
	Path     string                      `json:"path"`
	Refs     []reference.ParsedReference `json:"refs,omitempty"`
	Entries  int                         `json:"entries"` // Segmented entries before extraction
	Skipped  []EntryResult               `json:"skipped_entries,omitempty"`
	Reason   string                      `json:"reason,omitempty"` // Why the document yielded nothing
	Err      error                       `json:"-"`                // Systemic rendering failure
	Duration time.Duration               `json:"-"`
}

// Failed reports whether the document produced no usable references.
func (r DocumentResult) Failed() bool {
	return r.Err != nil || len(r.Refs) == 0
}

// Pipeline runs the document-to-reference chain. Stages are pure and the
// pipeline holds no mutable state, so one Pipeline may be shared across
// goroutines.
type Pipeline struct {
	renderer Renderer
}

// New creates a pipeline over the given rendering backend.
func New(r Renderer) *Pipeline {
	return &Pipeline{renderer: r}
}

// ProcessDocument runs one document through render, locate, segment,
// extract and dedupe.
func (p *Pipeline) ProcessDocument(path string) DocumentResult {
	start := time.Now()
	result := DocumentResult{Path: path}
	defer func() { result.Duration = time.Since(start) }()

	pages, err := p.renderer.ExtractPages(path)
	if err != nil {
		result.Err = err
		result.Reason = err.Error()
		return result
	}

	text := layout.AssembleDocument(pages)

	region, ok := section.Locate(text)
	if !ok {
		result.Reason = "no references section found"
		return result
	}

	entries := segment.Segment(text[region.Start:region.End])
	result.Entries = len(entries)

	var refs []reference.ParsedReference
	for i, entry := range entries {
		ref, ok := extract.Parse(entry, i+1)
		if !ok {
			result.Skipped = append(result.Skipped, EntryResult{
				Skipped: true,
				Reason:  "entry too short to be a citation",
			})
			continue
		}
		refs = append(refs, ref)
	}

	if len(refs) == 0 {
		result.Reason = "no references could be parsed"
		return result
	}

	result.Refs = dedupe.Merge(refs)
	return result
}

// ProcessBatch processes documents concurrently on a pool of the given size.
// Cancellation is cooperative and coarse: the context is checked before each
// document is dispatched, and in-flight documents run to completion. Results
// keep input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string, workers int) []DocumentResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]DocumentResult, len(paths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			// Checked between documents only; an in-flight document is
			// allowed to finish.
			if err := ctx.Err(); err != nil {
				results[idx] = DocumentResult{Path: path, Reason: "canceled before processing", Err: err}
				return
			}

			// Each goroutine writes only its own index.
			results[idx] = p.ProcessDocument(path)
		}(i, path)
	}

	wg.Wait()
	return results
}
