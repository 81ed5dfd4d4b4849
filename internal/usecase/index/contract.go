package index

import "context"

// Backend defines the document-ingest contract. The backend assigns the
// stored document identifier.
type Backend interface {
	Index(ctx context.Context, index string, body map[string]any) error
}

// Vectorizer embeds message content for semantic retrieval. Optional: without
// one, messages are indexed for lexical search only.
type Vectorizer interface {
	Vectorize(ctx context.Context, text string) ([]float32, error)
}
