// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/note-outline/internal/outline"
	"github.com/pdiddy/note-outline/internal/search"
	"github.com/pdiddy/note-outline/pkg/types"
)

var ginModeOnce sync.Once

func setupGinTestMode() {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})
}

type fakeOutliner struct {
	resp     types.OutlineResponse
	err      error
	panicMsg string

	calls    int
	gotQuery string
	gotNum   int
	ctxErr   error
}

func (f *fakeOutliner) Build(ctx context.Context, query string, num int) (types.OutlineResponse, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.calls++
	f.gotQuery = query
	f.gotNum = num
	f.ctxErr = ctx.Err()
	return f.resp, f.err
}

func newTestServer(token string, svc Outliner) http.Handler {
	setupGinTestMode()
	return New(types.ServerConfig{Port: 3000, Token: token}, svc, nil).Handler()
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) outline.ErrorBody {
	t.Helper()
	var body outline.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "body: %s", rr.Body.String())
	return body
}

func TestLivenessEndpoints(t *testing.T) {
	h := newTestServer("secret", &fakeOutliner{})

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "OK: "))

	for _, p := range []string{"/health", "/ping"} {
		rr := do(t, h, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, rr.Code, p)
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String(), p)
	}
}

func TestNotFound(t *testing.T) {
	rr := do(t, newTestServer("", &fakeOutliner{}), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Not found", decodeError(t, rr).Error)
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer("", &fakeOutliner{})

	rr := do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr = do(t, h, req)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestOutlineGET(t *testing.T) {
	f := &fakeOutliner{resp: types.OutlineResponse{
		Query: "go site:note.com",
		Results: []types.OutlineRecord{{
			SearchResult: types.SearchResult{Rank: 1, URL: "https://note.com/a/n/1", SERPTitle: "A"},
			PageExtract:  types.PageExtract{PageTitle: "T", H1: "H", H2: []string{"x"}, H3: []string{}},
			FetchedAt:    "2026-10-14T08:00:00.000Z",
		}},
	}}
	h := newTestServer("", f)

	rr := do(t, h, httptest.NewRequest(http.MethodGet, OutlinePath+"?q=go&num=3", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "go", f.gotQuery)
	assert.Equal(t, 3, f.gotNum)

	assert.JSONEq(t, `{
		"query": "go site:note.com",
		"results": [{
			"rank": 1,
			"url": "https://note.com/a/n/1",
			"serp_title": "A",
			"page_title": "T",
			"h1": "H",
			"h2": ["x"],
			"h3": [],
			"fetched_at": "2026-10-14T08:00:00.000Z"
		}]
	}`, rr.Body.String())
}

func TestOutlinePOST(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantQuery string
		wantNum   int
	}{
		{"numeric num", `{"query":"productivity tips","num":3}`, "productivity tips", 3},
		{"string num", `{"query":"go","num":"7"}`, "go", 7},
		{"missing num", `{"query":"go"}`, "go", search.DefaultNum},
		{"out of range num", `{"query":"go","num":50}`, "go", 10},
		{"non-string query", `{"query":123,"num":2}`, "", 2},
		{"malformed body", `{"query":`, "", search.DefaultNum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeOutliner{resp: types.OutlineResponse{Results: []types.OutlineRecord{}}}
			h := newTestServer("", f)

			req := httptest.NewRequest(http.MethodPost, OutlinePath, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := do(t, h, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantQuery, f.gotQuery)
			assert.Equal(t, tt.wantNum, f.gotNum)
		})
	}
}

func TestOutlineAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"correct token", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeOutliner{}
			h := newTestServer("secret", f)

			req := httptest.NewRequest(http.MethodGet, OutlinePath+"?q=go", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := do(t, h, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Unauthorized", decodeError(t, rr).Error)
				assert.Zero(t, f.calls, "pipeline must not run")
			}
		})
	}
}

func TestOutlineAuthAppliesToPOST(t *testing.T) {
	f := &fakeOutliner{}
	req := httptest.NewRequest(http.MethodPost, OutlinePath, bytes.NewBufferString(`{"query":"go"}`))
	rr := do(t, newTestServer("secret", f), req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Zero(t, f.calls)
}

func TestOutlineErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantDetail string
		wantUp     int
	}{
		{"validation", outline.ErrMissingQuery, http.StatusBadRequest, "Missing query", "", 0},
		{"config", search.ErrMissingAPIKey, http.StatusInternalServerError, "SERPAPI_KEY is not set", "", 0},
		{"upstream", &search.StatusError{StatusCode: 401, Body: "bad key"}, http.StatusBadGateway, "Search API error", "bad key", 401},
		{"internal", errors.New("exploded"), http.StatusInternalServerError, "Internal error", "exploded", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer("", &fakeOutliner{err: tt.err})
			rr := do(t, h, httptest.NewRequest(http.MethodGet, OutlinePath+"?q=go", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			body := decodeError(t, rr)
			assert.Equal(t, tt.wantError, body.Error)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body.Detail)
			}
			assert.Equal(t, tt.wantUp, body.Status)
		})
	}
}

func TestOutlinePanicRecovered(t *testing.T) {
	h := newTestServer("", &fakeOutliner{panicMsg: "kaboom"})
	rr := do(t, h, httptest.NewRequest(http.MethodGet, OutlinePath+"?q=go", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeError(t, rr)
	assert.Equal(t, "Internal error", body.Error)
	assert.Equal(t, "kaboom", body.Detail)
}

func TestOutlineDetachedFromClientCancel(t *testing.T) {
	f := &fakeOutliner{}
	h := newTestServer("", f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, OutlinePath+"?q=go", nil).WithContext(ctx)
	do(t, h, req)

	assert.Equal(t, 1, f.calls)
	assert.NoError(t, f.ctxErr)
}

func TestOutlineWithPipeline(t *testing.T) {
	// Empty query and missing key both stop before the searcher runs.
	calls := 0
	searcher := searcherFunc(func(context.Context, string) ([]search.Entry, error) {
		calls++
		return nil, nil
	})
	h := newTestServer("", outline.NewService(searcher, nil, nil))

	rr := do(t, h, httptest.NewRequest(http.MethodGet, OutlinePath+"?q=%20%20", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, calls)

	keyless := &search.SerpAPI{BaseURL: "http://127.0.0.1:0"}
	h = newTestServer("", outline.NewService(keyless, nil, nil))
	rr = do(t, h, httptest.NewRequest(http.MethodGet, OutlinePath+"?q=go", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "SERPAPI_KEY is not set", decodeError(t, rr).Error)
}

func TestOutlineNoMatchesJSON(t *testing.T) {
	searcher := searcherFunc(func(context.Context, string) ([]search.Entry, error) {
		return []search.Entry{{"link": "https://example.com/"}}, nil
	})
	h := newTestServer("", outline.NewService(searcher, nil, nil))

	rr := do(t, h, httptest.NewRequest(http.MethodGet, OutlinePath+"?q=go", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body["results"])
	assert.NotEmpty(t, body["note"])
	assert.Equal(t, "go site:note.com", body["query"])
}

type searcherFunc func(ctx context.Context, q string) ([]search.Entry, error)

func (f searcherFunc) Search(ctx context.Context, q string) ([]search.Entry, error) {
	return f(ctx, q)
}
