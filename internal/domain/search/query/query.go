// Package query defines the backend-agnostic structured search request and
// the builder that translates a caller intent into one.
package query

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/chatsearch/internal/domain"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/intent"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/mode"
)

// Default result-set sizes per mode.
const (
	DefaultLexicalSize  = 50
	DefaultSemanticSize = 20
)

// VectorField is the stored per-document vector field used by semantic search.
const VectorField = "content_vector"

// ScoreOffset shifts cosine similarity into [0, 2] so backend scores stay
// non-negative.
const ScoreOffset = 1.0

// Match is a full-text match clause against one field. Boost 0 means the
// backend default weight (1.0).
type Match struct {
	Field string
	Text  string
	Boost float64
}

// Filter is an exact-match term clause. Filters are always term-level, never
// full-text, so structured fields like room membership cannot fuzzy-match.
type Filter struct {
	Field string
	Value string
}

// Sort orders results by one field. A nil Sort leaves backend relevance order.
type Sort struct {
	Field string
	Desc  bool
}

// Vector is a similarity clause: cosine similarity of the query vector against
// the stored VectorField, offset by ScoreOffset, over the full corpus.
type Vector struct {
	Field  string
	Values []float32
}

// Request is the structured search request dispatched to the backend.
type Request struct {
	Matches []Match
	Vector  *Vector
	Filters []Filter
	Sort    *Sort
	Size    int
}

// Build translates an intent into a structured request for the given domain
// and mode. It is pure: identical inputs always yield an identical request.
// Semantic builds take the pre-computed query vector; obtaining it (exactly
// once per request) is the orchestrator's job.
func Build(d domain.SearchDomain, in *intent.Intent, m mode.Mode, queryVector []float32) (Request, error) {
	switch m {
	case mode.Lexical:
		return buildLexical(d, in)
	case mode.Semantic:
		return buildSemantic(d, in, queryVector)
	default:
		return Request{}, fmt.Errorf("%w: unsupported mode %q", domain.ErrInvalidIntent, m)
	}
}

func buildLexical(d domain.SearchDomain, in *intent.Intent) (Request, error) {
	if in.Query() == "" {
		return Request{}, fmt.Errorf("%w: lexical search requires a query", domain.ErrInvalidIntent)
	}

	switch d {
	case domain.Messages:
		return Request{
			Matches: []Match{{Field: "content", Text: in.Query()}},
			Filters: sortedFilters(in.Filters(), ""),
			Sort:    &Sort{Field: "timestamp", Desc: true},
			Size:    sizeOrDefault(in.Limit(), DefaultLexicalSize),
		}, nil

	case domain.Users:
		// Two match targets instead of filters; username outweighs email 2x.
		return Request{
			Matches: []Match{
				{Field: "username", Text: in.Query(), Boost: 2},
				{Field: "email", Text: in.Query()},
			},
			Size: sizeOrDefault(in.Limit(), DefaultLexicalSize),
		}, nil

	case domain.Rooms:
		if in.UserID() == "" {
			return Request{}, fmt.Errorf("%w: room search requires the requesting userId", domain.ErrInvalidIntent)
		}
		// The membership filter is injected here and cannot be displaced by
		// caller-supplied filters: any caller "members" entry is dropped.
		filters := append(
			[]Filter{{Field: "members", Value: in.UserID()}},
			sortedFilters(in.Filters(), "members")...,
		)
		return Request{
			Matches: []Match{{Field: "name", Text: in.Query()}},
			Filters: filters,
			Size:    sizeOrDefault(in.Limit(), DefaultLexicalSize),
		}, nil

	default:
		return Request{}, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, d)
	}
}

func buildSemantic(d domain.SearchDomain, in *intent.Intent, queryVector []float32) (Request, error) {
	// Only messages carry a stored content vector. Users have nothing to rank
	// semantically, and a vector request over rooms would bypass the mandatory
	// membership filter.
	if d != domain.Messages {
		return Request{}, fmt.Errorf("%w: semantic search is only supported for %s", domain.ErrInvalidIntent, domain.Messages)
	}
	if in.Context() == "" {
		return Request{}, fmt.Errorf("%w: semantic search requires a context", domain.ErrInvalidIntent)
	}
	if len(queryVector) == 0 {
		return Request{}, fmt.Errorf("%w: empty query vector", domain.ErrVectorizerFailure)
	}
	return Request{
		Vector: &Vector{Field: VectorField, Values: queryVector},
		Size:   sizeOrDefault(in.Limit(), DefaultSemanticSize),
	}, nil
}

// sortedFilters converts a filter map into term clauses ordered by field name,
// so that filter-map iteration order never changes the built request.
func sortedFilters(m map[string]string, exclude string) []Filter {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == exclude {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	filters := make([]Filter, 0, len(keys))
	for _, k := range keys {
		filters = append(filters, Filter{Field: k, Value: m[k]})
	}
	return filters
}

func sizeOrDefault(limit, def int) int {
	if limit > 0 {
		return limit
	}
	return def
}
