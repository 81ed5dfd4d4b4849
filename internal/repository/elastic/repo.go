// Package elastic adapts the Elasticsearch typed client to the search backend
// contract. Only the narrow request/response surface the facade needs is
// consumed: structured query in, ordered raw hits out.
package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chatsearch/internal/domain"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/query"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/result"
	"github.com/kailas-cloud/chatsearch/internal/metrics"
)

// Config holds connection parameters for the Elasticsearch backend.
type Config struct {
	Addrs    []string
	Username string
	Password string
}

// Repository executes structured requests against Elasticsearch.
type Repository struct {
	es     *elasticsearch.TypedClient
	logger *zap.Logger
}

// New creates an Elasticsearch-backed search repository.
func New(cfg Config, logger *zap.Logger) (*Repository, error) {
	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: cfg.Addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Repository{es: client, logger: logger}, nil
}

// NewWithClient wraps an existing typed client (used by tests).
func NewWithClient(client *elasticsearch.TypedClient, logger *zap.Logger) *Repository {
	return &Repository{es: client, logger: logger}
}

// Search dispatches a structured request against the given index and returns
// hits in backend relevance order. Failures wrap ErrBackendUnavailable.
func (r *Repository) Search(ctx context.Context, index string, req *query.Request) ([]result.Hit, error) {
	esReq, err := translate(req)
	if err != nil {
		return nil, fmt.Errorf("translate request: %w", err)
	}

	start := time.Now()
	res, err := r.es.Search().Index(index).Request(esReq).Do(ctx)
	metrics.BackendRequestDuration.WithLabelValues(index, "search").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	hits := make([]result.Hit, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var source map[string]any
		if err := json.Unmarshal(hit.Source_, &source); err != nil {
			// One unparseable hit must not sink the rest of the page.
			r.logger.Warn("Skipping unparseable hit", zap.String("index", index), zap.Error(err))
			continue
		}

		var score float64
		if hit.Score_ != nil {
			score = float64(*hit.Score_)
		}
		var id string
		if hit.Id_ != nil {
			id = *hit.Id_
		}
		hits = append(hits, result.Hit{ID: id, Score: score, Source: source})
	}

	return hits, nil
}

// Index submits a document body to the given index. The backend assigns the
// document identifier. Failures wrap ErrBackendUnavailable.
func (r *Repository) Index(ctx context.Context, index string, body map[string]any) error {
	start := time.Now()
	_, err := r.es.Index(index).Request(body).Do(ctx)
	metrics.BackendRequestDuration.WithLabelValues(index, "index").Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Ping checks backend connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	ok, err := r.es.Ping().Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	if !ok {
		return domain.ErrBackendUnavailable
	}
	return nil
}
