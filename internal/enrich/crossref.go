// Package enrich looks up reference metadata from external registries.
// It is not part of the core extraction chain; callers invoke it explicitly
// and merge improved fields back into stored records.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// CrossRefBaseURL is the CrossRef works API base URL.
	CrossRefBaseURL = "https://api.crossref.org/works"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit is the polite-pool request rate per CrossRef etiquette.
	RateLimit = 5.0

	// DefaultSearchRows is the default result count for title searches.
	DefaultSearchRows = 5
)

// Metadata is the normalized result of a registry lookup.
type Metadata struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Year      string   `json:"year"`
	Venue     string   `json:"venue"`
	Volume    string   `json:"volume"`
	Issue     string   `json:"issue"`
	Pages     string   `json:"pages"`
	DOI       string   `json:"doi"`
	URL       string   `json:"url"`
	Publisher string   `json:"publisher"`
	ISSN      string   `json:"issn"`
	Type      string   `json:"type"`
}

// CrossRefClient is a rate-limited HTTP client for the CrossRef works API.
type CrossRefClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// CrossRefOption configures a CrossRefClient.
type CrossRefOption func(*CrossRefClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) CrossRefOption {
	return func(c *CrossRefClient) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) CrossRefOption {
	return func(c *CrossRefClient) {
		c.baseURL = u
	}
}

// WithMailto sets the contact address sent in the User-Agent, which admits
// requests to CrossRef's polite pool.
func WithMailto(mailto string) CrossRefOption {
	return func(c *CrossRefClient) {
		c.mailto = mailto
	}
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(perSecond float64) CrossRefOption {
	return func(c *CrossRefClient) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewCrossRefClient creates a CrossRef client. The contact address is read
// from CROSSREF_MAILTO when not set via options.
func NewCrossRefClient(opts ...CrossRefOption) *CrossRefClient {
	c := &CrossRefClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    CrossRefBaseURL,
	}

	if mailto := os.Getenv("CROSSREF_MAILTO"); mailto != "" {
		c.mailto = mailto
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// crossRefWork is the wire shape of one CrossRef work item.
type crossRefWork struct {
	Title          []string `json:"title"`
	ContainerTitle []string `json:"container-title"`
	Author         []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	} `json:"author"`
	PublishedPrint struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"published-print"`
	PublishedOnline struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"published-online"`
	Volume    string   `json:"volume"`
	Issue     string   `json:"issue"`
	Page      string   `json:"page"`
	DOI       string   `json:"DOI"`
	URL       string   `json:"URL"`
	Publisher string   `json:"publisher"`
	ISSN      []string `json:"ISSN"`
	Type      string   `json:"type"`
}

// LookupDOI fetches metadata for a known DOI.
func (c *CrossRefClient) LookupDOI(ctx context.Context, doi string) (*Metadata, error) {
	var body struct {
		Message crossRefWork `json:"message"`
	}
	if err := c.get(ctx, c.baseURL+"/"+url.PathEscape(doi), &body); err != nil {
		return nil, err
	}

	meta := workToMetadata(body.Message)
	meta.DOI = doi
	return &meta, nil
}

// SearchTitle searches works by title and returns up to limit candidates in
// relevance order.
func (c *CrossRefClient) SearchTitle(ctx context.Context, title string, limit int) ([]Metadata, error) {
	if limit <= 0 {
		limit = DefaultSearchRows
	}

	q := url.Values{}
	q.Set("query.title", title)
	q.Set("rows", strconv.Itoa(limit))

	var body struct {
		Message struct {
			Items []crossRefWork `json:"items"`
		} `json:"message"`
	}
	if err := c.get(ctx, c.baseURL+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}

	results := make([]Metadata, 0, len(body.Message.Items))
	for _, item := range body.Message.Items {
		results = append(results, workToMetadata(item))
	}
	return results, nil
}

// get performs a rate-limited GET and decodes the JSON response.
func (c *CrossRefClient) get(ctx context.Context, rawURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	ua := "refsift/1.0"
	if c.mailto != "" {
		ua = fmt.Sprintf("refsift/1.0 (mailto:%s)", c.mailto)
	}
	req.Header.Set("User-Agent", ua)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crossref request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("crossref returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding crossref response: %w", err)
	}
	return nil
}

func workToMetadata(w crossRefWork) Metadata {
	meta := Metadata{
		Volume:    w.Volume,
		Issue:     w.Issue,
		Pages:     w.Page,
		DOI:       w.DOI,
		URL:       w.URL,
		Publisher: w.Publisher,
		Type:      w.Type,
	}

	if len(w.Title) > 0 {
		meta.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		meta.Venue = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		switch {
		case a.Given != "" && a.Family != "":
			meta.Authors = append(meta.Authors, a.Given+" "+a.Family)
		case a.Family != "":
			meta.Authors = append(meta.Authors, a.Family)
		}
	}
	if len(w.ISSN) > 0 {
		meta.ISSN = w.ISSN[0]
	}

	meta.Year = firstYear(w.PublishedPrint.DateParts, w.PublishedOnline.DateParts)
	return meta
}

func firstYear(parts ...[][]int) string {
	for _, p := range parts {
		if len(p) > 0 && len(p[0]) > 0 {
			return strconv.Itoa(p[0][0])
		}
	}
	return ""
}
