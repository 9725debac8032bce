package enrich

import (
	"context"

	"github.com/refsift/refsift/internal/reference"
)

// Enricher fills missing reference fields from external registries.
// Sources are tried in order: doi.org by DOI, CrossRef by DOI, CrossRef
// title search. Nil clients disable their source.
type Enricher struct {
	resolver *Resolver
	crossref *CrossRefClient
}

// NewEnricher creates an enricher over the given clients. Either may be nil.
func NewEnricher(resolver *Resolver, crossref *CrossRefClient) *Enricher {
	return &Enricher{resolver: resolver, crossref: crossref}
}

// Enrich fills empty fields of ref from the first source that answers.
// Existing values always win; only absent doi/url/publisher/issn/venue are
// written. It returns the source that supplied data, or "" when every
// source came up empty.
func (e *Enricher) Enrich(ctx context.Context, ref *reference.ParsedReference) (string, error) {
	if ref.DOI != "" && e.resolver != nil {
		if meta, err := e.resolver.Resolve(ctx, ref.DOI); err == nil {
			applyMetadata(ref, meta)
			return "doi.org", nil
		}
	}

	if ref.DOI != "" && e.crossref != nil {
		if meta, err := e.crossref.LookupDOI(ctx, ref.DOI); err == nil {
			applyMetadata(ref, meta)
			return "crossref", nil
		}
	}

	if ref.Title != "" && ref.Title != "Untitled" && e.crossref != nil {
		results, err := e.crossref.SearchTitle(ctx, ref.Title, 3)
		if err != nil {
			return "", err
		}
		if len(results) > 0 {
			applyMetadata(ref, &results[0])
			return "crossref-search", nil
		}
	}

	return "", nil
}

// applyMetadata copies registry values into empty fields only.
func applyMetadata(ref *reference.ParsedReference, meta *Metadata) {
	if ref.DOI == "" && meta.DOI != "" {
		ref.DOI = meta.DOI
	}
	if ref.URL == "" && meta.URL != "" {
		ref.URL = meta.URL
	}
	if ref.Publisher == "" && meta.Publisher != "" {
		ref.Publisher = meta.Publisher
	}
	if ref.ISSN == "" && meta.ISSN != "" {
		ref.ISSN = meta.ISSN
	}
	if ref.Journal == "" && ref.BookTitle == "" && meta.Venue != "" {
		ref.Journal = meta.Venue
	}
	if ref.Year == "" && meta.Year != "" {
		ref.Year = meta.Year
	}
}
