package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DOIOrgBaseURL is the doi.org content-negotiation endpoint.
const DOIOrgBaseURL = "https://doi.org"

// Resolver resolves DOIs to CSL-JSON metadata via doi.org.
type Resolver struct {
	httpClient *http.Client
	baseURL    string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverHTTPClient sets a custom HTTP client.
func WithResolverHTTPClient(hc *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.httpClient = hc
	}
}

// WithResolverBaseURL sets a custom base URL (for testing).
func WithResolverBaseURL(u string) ResolverOption {
	return func(r *Resolver) {
		r.baseURL = u
	}
}

// NewResolver creates a doi.org resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DOIOrgBaseURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// flexString unmarshals from a string, a number, or an array's first string
// element. CSL-JSON serves fields like ISSN in all three shapes.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*f = flexString(list[0])
		}
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into flexString", string(data))
}

// cslItem is the wire shape of a CSL-JSON record.
type cslItem struct {
	Title          flexString `json:"title"`
	ContainerTitle flexString `json:"container-title"`
	Author         []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	} `json:"author"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
	Volume    flexString `json:"volume"`
	Issue     flexString `json:"issue"`
	Page      flexString `json:"page"`
	URL       string     `json:"URL"`
	Publisher string     `json:"publisher"`
	ISSN      flexString `json:"ISSN"`
	Type      string     `json:"type"`
}

// Resolve fetches CSL-JSON metadata for a DOI.
func (r *Resolver) Resolve(ctx context.Context, doi string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/"+url.PathEscape(doi), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.citationstyles.csl+json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doi.org request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("doi.org returned status %d", resp.StatusCode)
	}

	var item cslItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("decoding doi.org response: %w", err)
	}

	meta := Metadata{
		Title:     string(item.Title),
		Venue:     string(item.ContainerTitle),
		Volume:    string(item.Volume),
		Issue:     string(item.Issue),
		Pages:     string(item.Page),
		DOI:       doi,
		URL:       item.URL,
		Publisher: item.Publisher,
		ISSN:      string(item.ISSN),
		Type:      item.Type,
	}
	for _, a := range item.Author {
		switch {
		case a.Given != "" && a.Family != "":
			meta.Authors = append(meta.Authors, a.Given+" "+a.Family)
		case a.Family != "":
			meta.Authors = append(meta.Authors, a.Family)
		}
	}
	if parts := item.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		meta.Year = strconv.Itoa(parts[0][0])
	}

	return &meta, nil
}
