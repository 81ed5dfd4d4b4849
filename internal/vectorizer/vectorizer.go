// Package vectorizer turns free text into fixed-length feature vectors for
// similarity queries. The vector space must be stable across calls, so every
// implementation fixes its vocabulary or model ahead of time and never refits
// per query.
package vectorizer

import "context"

// Vectorizer converts text into a fixed-dimensionality numeric vector.
// Implementations return an error on empty text or when vectorization fails;
// callers must never index a zero vector as if it were meaningful.
type Vectorizer interface {
	Vectorize(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
