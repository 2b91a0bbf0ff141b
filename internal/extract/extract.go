// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract fetches article pages and pulls out their heading outline
// (title, first h1, every h2 and h3).
//
// Extraction never fails from the caller's point of view: any fetch or parse
// problem yields a degraded Result carrying the empty PageExtract, so one bad
// page cannot sink a batch.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/pdiddy/note-outline/internal/httputil"
	"github.com/pdiddy/note-outline/pkg/types"
)

const (
	// DefaultTimeout bounds one page fetch.
	DefaultTimeout = 20 * time.Second

	// DefaultUserAgent mimics a desktop browser; note.com rejects default
	// Go client identifiers.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

	// DefaultAcceptLanguage prefers Japanese, then English.
	DefaultAcceptLanguage = "ja,en-US;q=0.9,en;q=0.8"

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Payload caps for the downstream consumer.
const (
	MaxTextLen = 200
	MaxH2      = 20
	MaxH3      = 40

	maxBodyBytes = 5 << 20
)

// Result is the outcome of extracting one page. When Err is set the page is
// degraded and Page is the empty extract.
type Result struct {
	Page types.PageExtract
	Err  error
}

// Degraded reports whether extraction fell back to empty fields.
func (r Result) Degraded() bool { return r.Err != nil }

func degraded(err error) Result {
	return Result{Page: types.EmptyPageExtract(), Err: err}
}

// Extractor fetches pages and extracts their outlines.
type Extractor struct {
	Client *http.Client
	Cfg    types.ExtractConfig
}

// New returns an Extractor, filling unset config fields with defaults.
func New(client *http.Client, cfg types.ExtractConfig) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = DefaultAcceptLanguage
	}
	return &Extractor{Client: client, Cfg: cfg}
}

// Extract fetches rawURL and returns its outline.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = degraded(fmt.Errorf("extracting %s: panic: %v", rawURL, r))
		}
	}()

	header := http.Header{}
	header.Set("User-Agent", e.Cfg.UserAgent)
	header.Set("Accept-Language", e.Cfg.AcceptLanguage)
	header.Set("Accept", acceptHTML)

	resp, release, err := httputil.Get(ctx, e.Client, rawURL, header, e.Cfg.Timeout)
	if err != nil {
		return degraded(fmt.Errorf("fetching %s: %w", rawURL, err))
	}
	defer release()

	if !httputil.IsSuccess(resp.StatusCode) {
		return degraded(fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode))
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return degraded(fmt.Errorf("decoding %s: %w", rawURL, err))
	}

	page, err := Parse(body)
	if err != nil {
		return degraded(fmt.Errorf("parsing %s: %w", rawURL, err))
	}
	return Result{Page: page}
}

// Parse reads an HTML document and extracts the first title, the first h1,
// and all h2 and h3 texts in document order, normalized and capped.
func Parse(r io.Reader) (types.PageExtract, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return types.EmptyPageExtract(), err
	}

	return types.PageExtract{
		PageTitle: httputil.Truncate(Normalize(doc.Find("title").First().Text()), MaxTextLen),
		H1:        httputil.Truncate(Normalize(doc.Find("h1").First().Text()), MaxTextLen),
		H2:        texts(doc.Find("h2"), MaxH2),
		H3:        texts(doc.Find("h3"), MaxH3),
	}, nil
}

// texts returns the normalized text of the first limit nodes of sel.
func texts(sel *goquery.Selection, limit int) []string {
	out := make([]string, 0, min(sel.Length(), limit))
	sel.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		out = append(out, httputil.Truncate(Normalize(s.Text()), MaxTextLen))
		return true
	})
	return out
}

// Normalize collapses whitespace runs to single spaces and trims the ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
