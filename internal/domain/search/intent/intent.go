// Package intent models a caller's search intent before it is translated into
// a backend request.
package intent

import (
	"fmt"
	"unicode/utf8"

	"github.com/kailas-cloud/chatsearch/internal/domain"
)

// Caps on caller-supplied parameters.
const (
	// MaxQueryLength is the maximum allowed query or context length in runes.
	MaxQueryLength = 4096
	// MaxLimit is the maximum result-set size a caller may request.
	MaxLimit = 200
)

// Intent is a validated search intent: free-text query, optional exact-match
// filters (ANDed), optional semantic context, and a result-size limit.
// A zero limit defers to the per-mode default at build time.
type Intent struct {
	query   string
	filters map[string]string
	context string
	limit   int
	userID  string
}

// New validates and creates an Intent. The query may be empty only when a
// semantic context is present. userID identifies the requesting user and is
// mandatory for room search (enforced by the builder).
func New(query string, filters map[string]string, context string, limit int, userID string) (Intent, error) {
	if query == "" && context == "" {
		return Intent{}, fmt.Errorf("%w: query and context are both empty", domain.ErrInvalidIntent)
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Intent{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidIntent, MaxQueryLength)
	}
	if utf8.RuneCountInString(context) > MaxQueryLength {
		return Intent{}, fmt.Errorf("%w: context too long (max %d chars)", domain.ErrInvalidIntent, MaxQueryLength)
	}
	if limit < 0 {
		return Intent{}, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidIntent)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Intent{
		query:   query,
		filters: cloneFilters(filters),
		context: context,
		limit:   limit,
		userID:  userID,
	}, nil
}

// Query returns the free-text query.
func (i *Intent) Query() string { return i.query }

// Filters returns the exact-match filter mapping.
func (i *Intent) Filters() map[string]string { return i.filters }

// Context returns the semantic context string.
func (i *Intent) Context() string { return i.context }

// Limit returns the caller-requested result size (0 = per-mode default).
func (i *Intent) Limit() int { return i.limit }

// UserID returns the requesting user's identifier.
func (i *Intent) UserID() string { return i.userID }

func cloneFilters(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
