// Package openai adapts an OpenAI-compatible embeddings API to the vectorizer
// contract.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chatsearch/internal/domain"
	"github.com/kailas-cloud/chatsearch/internal/metrics"
	"github.com/kailas-cloud/chatsearch/internal/vectorizer"
)

// Compile-time check: Vectorizer implements vectorizer.Vectorizer.
var _ vectorizer.Vectorizer = (*Vectorizer)(nil)

// Vectorizer produces embeddings via an OpenAI-compatible API. Model and
// dimensionality are fixed per deployment so vectors stay comparable.
type Vectorizer struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	provider   string
	logger     *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Provider   string
	Logger     *zap.Logger
}

// New creates an OpenAI-compatible vectorizer.
func New(cfg *Config) *Vectorizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Vectorizer{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		provider:   cfg.Provider,
		logger:     cfg.Logger,
	}
}

// Vectorize implements vectorizer.Vectorizer.
func (v *Vectorizer) Vectorize(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrVectorizerFailure)
	}

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          v.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if v.dimensions > 0 {
		req.Dimensions = v.dimensions
	}

	resp, err := v.client.CreateEmbeddings(ctx, req)
	if err != nil {
		metrics.VectorizeRequestsTotal.WithLabelValues(v.provider, "error").Inc()
		return nil, parseAPIError(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.VectorizeRequestsTotal.WithLabelValues(v.provider, "error").Inc()
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrVectorizerFailure)
	}

	metrics.VectorizeRequestsTotal.WithLabelValues(v.provider, "success").Inc()
	return resp.Data[0].Embedding, nil
}

// Dimensions returns the configured embedding dimensionality.
func (v *Vectorizer) Dimensions() int { return v.dimensions }

// HealthCheck verifies API availability via ListModels (free endpoint).
func (v *Vectorizer) HealthCheck(ctx context.Context) error {
	if _, err := v.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrVectorizerFailure for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrVectorizerFailure

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}
