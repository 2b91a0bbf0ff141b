// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the note-outline pipeline:
// search results, page extracts, and the outline payload returned to callers.
package types

// SearchResult is one organic search hit that survived domain filtering.
type SearchResult struct {
	// Rank is the 1-based position after filtering, not the engine position.
	Rank int `json:"rank" yaml:"rank"`

	// URL is the article link as returned by the search engine.
	URL string `json:"url" yaml:"url"`

	// SERPTitle is the title shown on the search results page.
	SERPTitle string `json:"serp_title" yaml:"serp_title"`
}

// PageExtract holds the heading outline of one fetched page.
type PageExtract struct {
	PageTitle string   `json:"page_title" yaml:"page_title"`
	H1        string   `json:"h1" yaml:"h1"`
	H2        []string `json:"h2" yaml:"h2"`
	H3        []string `json:"h3" yaml:"h3"`
}

// EmptyPageExtract returns the extract used when a page cannot be fetched or
// parsed. The slices are non-nil so they encode as [] rather than null.
func EmptyPageExtract() PageExtract {
	return PageExtract{H2: []string{}, H3: []string{}}
}

// OutlineRecord is a search result merged with its page extract.
type OutlineRecord struct {
	SearchResult `yaml:",inline"`
	PageExtract  `yaml:",inline"`

	// FetchedAt is the ISO-8601 UTC time the page was extracted.
	FetchedAt string `json:"fetched_at" yaml:"fetched_at"`
}

// OutlineResponse is the success payload of the outline endpoint.
type OutlineResponse struct {
	// Query is the query sent to the search engine, site suffix included.
	Query   string          `json:"query" yaml:"query"`
	Results []OutlineRecord `json:"results" yaml:"results"`

	// Note explains an empty result set.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}
