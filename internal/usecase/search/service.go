// Package search orchestrates query handling: cache check, request build,
// backend dispatch, normalization, and write-through caching.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/chatsearch/internal/domain"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/intent"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/query"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/result"
	"github.com/kailas-cloud/chatsearch/internal/metrics"
	"github.com/kailas-cloud/chatsearch/internal/repository/resultcache"
)

// Service is the search facade. It holds no locks and no mutable state of its
// own: the cache and backend are external, concurrency-safe collaborators, so
// concurrent calls are independent.
type Service struct {
	backend Backend
	cache   ResultCache
	vec     Vectorizer
	ttl     time.Duration
}

// New creates a search orchestrator with the standard cache TTL.
func New(backend Backend, cache ResultCache, vec Vectorizer) *Service {
	return &Service{backend: backend, cache: cache, vec: vec, ttl: resultcache.DefaultTTL}
}

// WithTTL overrides the cache TTL.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	s.ttl = ttl
	return s
}

// Search serves one query: on a cache hit it returns the cached results with
// no backend call; on a miss it builds the structured request, dispatches to
// the backend exactly once, normalizes the hits, writes through to the cache,
// and returns them. Backend failures propagate and are never cached.
func (s *Service) Search(
	ctx context.Context, d domain.SearchDomain, in *intent.Intent, m mode.Mode,
) ([]result.Hit, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: unsupported mode %q", domain.ErrInvalidIntent, m)
	}
	// Rejected here, before the cache and vectorizer are touched; the builder
	// enforces the same restriction for callers that bypass this service.
	if m == mode.Semantic && d != domain.Messages {
		return nil, fmt.Errorf("%w: semantic search is only supported for %s", domain.ErrInvalidIntent, domain.Messages)
	}

	key := s.cacheKey(d, in, m)
	if hits, ok := s.cache.Get(ctx, key); ok {
		metrics.SearchRequestsTotal.WithLabelValues(string(d), m.String(), "success").Inc()
		return hits, nil
	}

	// The query vector is computed exactly once per request, on the miss
	// path only; vectors are never reused across requests.
	var queryVector []float32
	if m == mode.Semantic {
		if s.vec == nil {
			return nil, fmt.Errorf("%w: no vectorizer configured", domain.ErrVectorizerFailure)
		}
		if in.Context() == "" {
			return nil, fmt.Errorf("%w: semantic search requires a context", domain.ErrInvalidIntent)
		}
		vec, err := s.vec.Vectorize(ctx, in.Context())
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues(string(d), m.String(), "error").Inc()
			return nil, fmt.Errorf("vectorize context: %w", err)
		}
		queryVector = vec
	}

	req, err := query.Build(d, in, m, queryVector)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(d), m.String(), "error").Inc()
		return nil, err
	}

	hits, err := s.backend.Search(ctx, d.Index(), &req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(d), m.String(), "error").Inc()
		return nil, fmt.Errorf("dispatch %s search: %w", d, err)
	}

	hits = normalize(hits, m)

	// A cancelled caller must not leave a cache write behind.
	if ctx.Err() == nil {
		s.cache.Put(ctx, key, hits, s.ttl)
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(d), m.String(), "success").Inc()
	return hits, nil
}

// cacheKey derives the key from the caller intent. Room searches fold the
// requesting user into the filter set: the builder injects a membership
// filter, so two users issuing the same room query see different results and
// must never share a cache entry.
func (s *Service) cacheKey(d domain.SearchDomain, in *intent.Intent, m mode.Mode) string {
	text := in.Query()
	if m == mode.Semantic {
		text = in.Context()
	}

	filters := in.Filters()
	if d == domain.Rooms {
		merged := make(map[string]string, len(filters)+1)
		for k, v := range filters {
			merged[k] = v
		}
		merged["members"] = in.UserID()
		filters = merged
	}

	return resultcache.Key(d, m, text, filters)
}

// normalize enforces the result-shape guarantees: hits stay in backend order
// and semantic scores are clamped to the documented [0, 2] range.
func normalize(hits []result.Hit, m mode.Mode) []result.Hit {
	if hits == nil {
		return []result.Hit{}
	}
	if m != mode.Semantic {
		return hits
	}
	for i := range hits {
		if hits[i].Score < 0 {
			hits[i].Score = 0
		}
		if hits[i].Score > 2*query.ScoreOffset {
			hits[i].Score = 2 * query.ScoreOffset
		}
	}
	return hits
}
