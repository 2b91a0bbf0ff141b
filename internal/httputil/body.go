// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the search and extract stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

// SnippetLimit is the number of characters of an upstream body kept for
// diagnostics when a request fails.
const SnippetLimit = 800

// Get issues a single GET request bounded by timeout. No retries are made.
//
// On success the caller owns the response and must call release, which
// closes the body and cancels the timeout. On error release is a no-op and
// the response is nil. A zero timeout leaves only ctx in control.
func Get(ctx context.Context, client *http.Client, rawURL string, header http.Header, timeout time.Duration) (resp *http.Response, release func(), err error) {
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, func() {}, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err = client.Do(req)
	if err != nil {
		cancel()
		return nil, func() {}, err
	}

	return resp, func() {
		resp.Body.Close()
		cancel()
	}, nil
}

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// ReadSnippet reads at most limit characters from r. Read errors end the
// snippet early; whatever was read is returned.
func ReadSnippet(r io.Reader, limit int) string {
	if limit <= 0 {
		return ""
	}
	// A UTF-8 character is at most 4 bytes.
	data, _ := io.ReadAll(io.LimitReader(r, int64(limit)*utf8.UTFMax))
	return Truncate(string(data), limit)
}

// Truncate returns s cut to at most limit characters (runes).
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
