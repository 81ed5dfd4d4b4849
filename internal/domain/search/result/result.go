// Package result defines the normalized search hit returned to callers and
// stored in the result cache.
package result

// Hit is a single search hit: backend identifier, relevance score, and the
// normalized document body. Fields are exported so a result set round-trips
// through the cache with order and types preserved.
type Hit struct {
	ID     string         `json:"id"`
	Score  float64        `json:"score"`
	Source map[string]any `json:"source"`
}
