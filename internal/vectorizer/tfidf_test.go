package vectorizer

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/chatsearch/internal/domain"
)

var corpus = []string{
	"hello world",
	"deployment went out this morning",
	"the deployment broke the staging world",
	"good morning everyone",
}

func fit(t *testing.T) *TFIDF {
	t.Helper()
	v, err := FitTFIDF(corpus)
	if err != nil {
		t.Fatalf("FitTFIDF: %v", err)
	}
	return v
}

func TestFitTFIDF_EmptyCorpus(t *testing.T) {
	if _, err := FitTFIDF(nil); err == nil {
		t.Error("expected error for empty corpus")
	}
	if _, err := FitTFIDF([]string{"", "  ", "---"}); err == nil {
		t.Error("expected error for corpus with no tokenizable documents")
	}
}

func TestVectorize_StableAcrossCalls(t *testing.T) {
	v := fit(t)

	first, err := v.Vectorize(context.Background(), "deployment this morning")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := v.Vectorize(context.Background(), "deployment this morning")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, next) {
			t.Fatal("vectors must be identical across calls for the same text")
		}
	}
}

func TestVectorize_FixedDimensionality(t *testing.T) {
	v := fit(t)

	a, err := v.Vectorize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := v.Vectorize(context.Background(), "good morning deployment world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != v.Dimensions() || len(b) != v.Dimensions() {
		t.Errorf("expected all vectors to have %d dimensions, got %d and %d",
			v.Dimensions(), len(a), len(b))
	}
}

func TestVectorize_L2Normalized(t *testing.T) {
	v := fit(t)

	vec, err := v.Vectorize(context.Background(), "the deployment broke staging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var norm float64
	for _, w := range vec {
		norm += float64(w) * float64(w)
	}
	if math.Abs(norm-1.0) > 1e-5 {
		t.Errorf("expected unit norm, got %f", math.Sqrt(norm))
	}
}

func TestVectorize_EmptyText(t *testing.T) {
	v := fit(t)

	_, err := v.Vectorize(context.Background(), "")
	if !errors.Is(err, domain.ErrVectorizerFailure) {
		t.Errorf("expected ErrVectorizerFailure, got %v", err)
	}
}

func TestVectorize_OutOfVocabularyOnly(t *testing.T) {
	v := fit(t)

	_, err := v.Vectorize(context.Background(), "zyzzyva qwerty")
	if !errors.Is(err, domain.ErrVectorizerFailure) {
		t.Errorf("expected ErrVectorizerFailure for zero vector, got %v", err)
	}
}

func TestVectorize_DistinctTextsComparable(t *testing.T) {
	v := fit(t)

	a, err := v.Vectorize(context.Background(), "deployment broke staging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := v.Vectorize(context.Background(), "good morning")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cosine similarity of unrelated texts must be below self-similarity,
	// which only holds when both live in the same fixed vector space.
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	if dot >= 1.0 {
		t.Errorf("unrelated texts must not be maximally similar, cosine=%f", dot)
	}
}
