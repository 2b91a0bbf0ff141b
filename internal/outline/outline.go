// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline runs the search, filter, and extract pipeline for one query
// and assembles the response payload.
package outline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/note-outline/internal/extract"
	"github.com/pdiddy/note-outline/internal/search"
	"github.com/pdiddy/note-outline/pkg/types"
)

// InterFetchDelay separates successive page fetches to stay polite toward
// note.com. Tests override this to avoid real sleeps.
var InterFetchDelay = 500 * time.Millisecond

// TimeLayout formats fetched_at: ISO-8601 UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// NoResultsNote accompanies an empty result set.
const NoResultsNote = "no " + search.TargetDomain + " articles found in search results"

// Searcher returns raw organic entries for a site-restricted query.
type Searcher interface {
	Search(ctx context.Context, q string) ([]search.Entry, error)
}

// PageExtractor extracts one page. It must not fail; problems are reported
// through a degraded Result.
type PageExtractor interface {
	Extract(ctx context.Context, url string) extract.Result
}

// Service builds outline responses.
type Service struct {
	searcher  Searcher
	extractor PageExtractor
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the clock used for fetched_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service. A nil logger disables logging.
func NewService(searcher Searcher, extractor PageExtractor, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		searcher:  searcher,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build searches for query on note.com, keeps the first num matching
// articles, and extracts each one in turn. num is clamped to [1,10].
//
// An empty query fails with ErrMissingQuery before any network call. Search
// failures abort the request; extraction failures only empty that record.
func (s *Service) Build(ctx context.Context, query string, num int) (types.OutlineResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.OutlineResponse{}, ErrMissingQuery
	}
	num = search.ClampNum(num)
	siteQuery := search.SiteQuery(query)

	s.logger.Info("searching", zap.String("query", siteQuery), zap.Int("num", num))
	entries, err := s.searcher.Search(ctx, siteQuery)
	if err != nil {
		return types.OutlineResponse{}, Classify(err)
	}

	hits := search.Filter(entries, num)
	s.logger.Debug("filtered search results",
		zap.Int("entries", len(entries)),
		zap.Int("kept", len(hits)))

	if len(hits) == 0 {
		return types.OutlineResponse{
			Query:   siteQuery,
			Results: []types.OutlineRecord{},
			Note:    NoResultsNote,
		}, nil
	}

	records := make([]types.OutlineRecord, 0, len(hits))
	for i, hit := range hits {
		if i > 0 && InterFetchDelay > 0 {
			select {
			case <-ctx.Done():
				return types.OutlineResponse{}, Internal(ctx.Err())
			case <-time.After(InterFetchDelay):
			}
		}

		res := s.extractor.Extract(ctx, hit.URL)
		if res.Degraded() {
			s.logger.Warn("page extraction degraded",
				zap.Int("rank", hit.Rank),
				zap.String("url", hit.URL),
				zap.Error(res.Err))
		}

		records = append(records, types.OutlineRecord{
			SearchResult: hit,
			PageExtract:  res.Page,
			FetchedAt:    s.now().UTC().Format(TimeLayout),
		})
	}

	s.logger.Info("outline assembled", zap.String("query", siteQuery), zap.Int("results", len(records)))
	return types.OutlineResponse{Query: siteQuery, Results: records}, nil
}
