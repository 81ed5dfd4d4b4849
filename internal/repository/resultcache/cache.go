// Package resultcache is the read-through guard in front of the search
// backend: it maps normalized query keys to previously computed result sets
// with a TTL. Store failures and malformed entries degrade to a cache miss,
// never to an error surfaced to the caller.
package resultcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chatsearch/internal/db"
	"github.com/kailas-cloud/chatsearch/internal/domain"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/result"
)

// DefaultTTL is the standard lifetime of a cached result set.
const DefaultTTL = 300 * time.Second

var keyPrefix = domain.KeyPrefix + "results:"

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores search result sets in a key-value store with TTL expiry.
// Expiry is enforced store-side; no invalidation happens on index writes
// (eventual consistency by design).
type Cache struct {
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a result cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{store: s, cacheTotal: cacheTotal, logger: logger}
}

// Key derives the deterministic cache key for a logical query. Identical
// queries map to the same key regardless of filter-map iteration order. The
// mode is part of the key so a lexical and a semantic query over the same
// text never share an entry.
func Key(d domain.SearchDomain, m mode.Mode, query string, filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(d))
	b.WriteByte(0)
	b.WriteString(string(m))
	b.WriteByte(0)
	b.WriteString(query)
	for _, k := range keys {
		b.WriteByte(0)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(filters[k])
	}

	h := sha256.Sum256([]byte(b.String()))
	return keyPrefix + hex.EncodeToString(h[:])
}

// Get returns the cached result set for key, or ok=false on a miss. A store
// error or an entry that fails to decode is reported as a miss; the cached
// bytes are never surfaced undecoded.
func (c *Cache) Get(ctx context.Context, key string) ([]result.Hit, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Result cache unavailable, forcing miss",
				zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return nil, false
	}

	hits, err := decodeHits(data)
	if err != nil {
		c.logger.Warn("Discarding malformed cache entry",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %w", domain.ErrMalformedCacheEntry, err)))
		c.incCache("miss")
		return nil, false
	}

	c.incCache("hit")
	return hits, true
}

// Put stores the full result set under key with the given TTL, replacing any
// prior entry. Partial result sets are never written; an encode or store
// failure leaves the cache untouched and is only logged.
func (c *Cache) Put(ctx context.Context, key string, hits []result.Hit, ttl time.Duration) {
	data, err := json.Marshal(hits)
	if err != nil {
		c.logger.Warn("Failed to encode result set for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		c.logger.Warn("Failed to write result cache", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// decodeHits strictly decodes a cached payload. Unknown fields or trailing
// garbage fail the decode so a corrupt entry can never masquerade as data.
func decodeHits(data []byte) ([]result.Hit, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var hits []result.Hit
	if err := dec.Decode(&hits); err != nil {
		return nil, fmt.Errorf("decode cached result set: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after cached result set")
	}
	return hits, nil
}
