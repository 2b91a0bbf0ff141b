// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries SerpAPI for note.com articles and turns the organic
// results into ranked search hits.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/note-outline/internal/httputil"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests can
// substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search.json"

const (
	// TargetDomain is the publishing platform every query is restricted to.
	TargetDomain = "note.com"

	// DefaultTimeout bounds the SerpAPI call.
	DefaultTimeout = 20 * time.Second

	// requestCount is how many organic results are asked for. Domain
	// filtering drops entries, so the engine is always asked for the maximum.
	requestCount = MaxNum
)

// Fixed locale parameters; note.com is a Japanese platform.
const (
	paramHL           = "ja"
	paramGL           = "jp"
	paramGoogleDomain = "google.co.jp"
)

// ErrMissingAPIKey is returned before any network call when no key is set.
var ErrMissingAPIKey = errors.New("SerpAPI key is not configured")

// StatusError reports a non-2xx SerpAPI response.
type StatusError struct {
	StatusCode int

	// Body is the start of the response body, at most httputil.SnippetLimit characters.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("SerpAPI returned HTTP %d", e.StatusCode)
}

// SerpAPI is a SerpAPI client for the Google engine.
type SerpAPI struct {
	Client  *http.Client
	APIKey  string
	Timeout time.Duration

	// BaseURL overrides the SerpAPI endpoint when set.
	BaseURL string
}

// SiteQuery appends the site restriction to a trimmed free-text query.
func SiteQuery(query string) string {
	return strings.TrimSpace(query) + " site:" + TargetDomain
}

// Search sends q to SerpAPI and returns the raw organic entries in engine order.
// q is sent as-is; callers build it with SiteQuery.
func (s *SerpAPI) Search(ctx context.Context, q string) ([]Entry, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	params := url.Values{
		"engine":        {"google"},
		"q":             {q},
		"num":           {strconv.Itoa(requestCount)},
		"hl":            {paramHL},
		"gl":            {paramGL},
		"google_domain": {paramGoogleDomain},
		"api_key":       {s.APIKey},
	}
	base := s.BaseURL
	if base == "" {
		base = serpAPIBase
	}
	reqURL := base + "?" + params.Encode()

	header := http.Header{}
	header.Set("Accept", "application/json")

	resp, release, err := httputil.Get(ctx, s.Client, reqURL, header, timeout)
	if err != nil {
		return nil, fmt.Errorf("SerpAPI request: %w", err)
	}
	defer release()

	if !httputil.IsSuccess(resp.StatusCode) {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       httputil.ReadSnippet(resp.Body, httputil.SnippetLimit),
		}
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing SerpAPI response: %w", err)
	}
	return sr.entries(), nil
}

// Entry is one organic result as returned by SerpAPI. Fields are kept raw
// because any of them may be missing or of an unexpected type.
type Entry map[string]any

// Link returns the entry's link if it is a string.
func (e Entry) Link() (string, bool) {
	s, ok := e["link"].(string)
	return s, ok
}

// Title returns the entry's title, or "" when absent or not a string.
func (e Entry) Title() string {
	s, _ := e["title"].(string)
	return s
}

// SerpAPI JSON structures.
type serpResponse struct {
	OrganicResults json.RawMessage `json:"organic_results"`
}

// entries decodes organic_results leniently: a missing or malformed list
// yields no entries and non-object items are skipped.
func (sr serpResponse) entries() []Entry {
	if len(sr.OrganicResults) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(sr.OrganicResults, &items); err != nil {
		return nil
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		var e Entry
		if err := json.Unmarshal(item, &e); err != nil || e == nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
