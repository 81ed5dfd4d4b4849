package vectorizer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/chatsearch/internal/domain"
)

// TFIDF is a term-frequency/inverse-document-frequency vectorizer with a
// vocabulary fixed at construction. Fitting happens exactly once, over a
// representative corpus; refitting per query would make every query vector
// incomparable across calls.
type TFIDF struct {
	vocab map[string]int
	idf   []float64
}

// Compile-time check: TFIDF implements Vectorizer.
var _ Vectorizer = (*TFIDF)(nil)

// FitTFIDF builds a TFIDF vectorizer from a training corpus, one document per
// element. Uses smoothed IDF: log((1+n)/(1+df)) + 1.
func FitTFIDF(corpus []string) (*TFIDF, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("corpus is required")
	}

	df := map[string]int{}
	docs := 0
	for _, doc := range corpus {
		terms := tokenize(doc)
		if len(terms) == 0 {
			continue
		}
		docs++
		seen := map[string]struct{}{}
		for _, term := range terms {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if docs == 0 {
		return nil, fmt.Errorf("corpus contains no tokenizable documents")
	}

	// Sorted vocabulary keeps vector dimensions stable across process restarts.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log(float64(1+docs)/float64(1+df[term])) + 1
	}

	return &TFIDF{vocab: vocab, idf: idf}, nil
}

// Vectorize returns the L2-normalized TF-IDF vector of text over the fixed
// vocabulary. Text that is empty or contains no in-vocabulary terms fails:
// a zero vector has no meaningful similarity to anything.
func (v *TFIDF) Vectorize(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrVectorizerFailure)
	}

	counts := map[int]int{}
	for _, term := range tokenize(text) {
		if idx, ok := v.vocab[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: no in-vocabulary terms in %q", domain.ErrVectorizerFailure, text)
	}

	vec := make([]float64, len(v.idf))
	var norm float64
	for idx, tf := range counts {
		w := float64(tf) * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(vec))
	for i, w := range vec {
		out[i] = float32(w / norm)
	}
	return out, nil
}

// Dimensions returns the vocabulary size.
func (v *TFIDF) Dimensions() int { return len(v.idf) }

// tokenize lowercases and splits on non-letter/non-digit runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
