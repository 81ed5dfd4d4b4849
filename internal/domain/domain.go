package domain

import "fmt"

// KeyPrefix namespaces every cache key written by this service, keeping it
// apart from unrelated usage of the same Redis store.
const KeyPrefix = "search:"

// SearchDomain identifies which document corpus a call targets.
type SearchDomain string

// Search domains map one-to-one onto backend indices.
const (
	Messages SearchDomain = "messages"
	Users    SearchDomain = "users"
	Rooms    SearchDomain = "rooms"
)

// ParseSearchDomain validates a domain tag from external input.
func ParseSearchDomain(s string) (SearchDomain, error) {
	switch SearchDomain(s) {
	case Messages, Users, Rooms:
		return SearchDomain(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
}

// Index returns the backend index name for the domain.
func (d SearchDomain) Index() string { return string(d) }
