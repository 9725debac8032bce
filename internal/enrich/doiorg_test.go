package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const cslJSON = `{
	"title": "A Great Paper",
	"container-title": "IEEE Transactions on Things",
	"author": [{"given": "Jane", "family": "Smith"}],
	"issued": {"date-parts": [[2020, 3, 1]]},
	"volume": 5,
	"issue": "2",
	"page": "10-20",
	"URL": "https://doi.org/10.1234/great.2020",
	"publisher": "IEEE",
	"ISSN": ["1234-5678"],
	"type": "article-journal"
}`

func TestResolve(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(cslJSON))
	}))
	defer server.Close()

	resolver := NewResolver(WithResolverBaseURL(server.URL))

	meta, err := resolver.Resolve(context.Background(), "10.1234/great.2020")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAccept != "application/vnd.citationstyles.csl+json" {
		t.Errorf("unexpected Accept header %q", gotAccept)
	}
	if meta.Title != "A Great Paper" {
		t.Errorf("unexpected title %q", meta.Title)
	}
	// Numeric volume and array ISSN both normalize to strings.
	if meta.Volume != "5" {
		t.Errorf("unexpected volume %q", meta.Volume)
	}
	if meta.ISSN != "1234-5678" {
		t.Errorf("unexpected ISSN %q", meta.ISSN)
	}
	if meta.Year != "2020" {
		t.Errorf("unexpected year %q", meta.Year)
	}
	if meta.DOI != "10.1234/great.2020" {
		t.Errorf("resolver should echo the requested DOI, got %q", meta.DOI)
	}
}

func TestResolve_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resolver := NewResolver(WithResolverBaseURL(server.URL))
	if _, err := resolver.Resolve(context.Background(), "10.9999/missing"); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestFlexString(t *testing.T) {
	var f flexString

	if err := json.Unmarshal([]byte(`"plain"`), &f); err != nil || f != "plain" {
		t.Errorf("string: got %q, err %v", f, err)
	}
	if err := json.Unmarshal([]byte(`42`), &f); err != nil || f != "42" {
		t.Errorf("number: got %q, err %v", f, err)
	}
	if err := json.Unmarshal([]byte(`["first", "second"]`), &f); err != nil || f != "first" {
		t.Errorf("array: got %q, err %v", f, err)
	}
	if err := json.Unmarshal([]byte(`null`), &f); err != nil || f != "" {
		t.Errorf("null: got %q, err %v", f, err)
	}
	if err := json.Unmarshal([]byte(`{"unsupported": true}`), &f); err == nil {
		t.Error("expected error for object input")
	}
}
