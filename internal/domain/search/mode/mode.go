// Package mode defines the search strategies the facade supports.
package mode

// Mode is a search strategy.
type Mode string

const (
	// Lexical is keyword matching over the domain's text fields.
	Lexical Mode = "lexical"
	// Semantic is vector-similarity ranking against stored content vectors.
	Semantic Mode = "semantic"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == Lexical || m == Semantic
}

// String returns the mode tag.
func (m Mode) String() string { return string(m) }
