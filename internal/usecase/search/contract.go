package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/chatsearch/internal/domain/search/query"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/result"
)

// Backend defines the search backend contract for query dispatch.
type Backend interface {
	Search(ctx context.Context, index string, req *query.Request) ([]result.Hit, error)
}

// ResultCache is the read-through guard consulted before any backend call.
// Get reports a miss for absent, expired, unreadable, and malformed entries
// alike; Put never fails the calling operation.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]result.Hit, bool)
	Put(ctx context.Context, key string, hits []result.Hit, ttl time.Duration)
}

// Vectorizer turns semantic context text into a query vector.
type Vectorizer interface {
	Vectorize(ctx context.Context, text string) ([]float32, error)
}
