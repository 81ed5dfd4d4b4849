package domain

import "errors"

var (
	// ErrInvalidIntent signals malformed caller input, rejected before any I/O.
	ErrInvalidIntent = errors.New("invalid search intent")
	// ErrMissingField signals a document missing a required attribute at index time.
	ErrMissingField = errors.New("missing required field")
	// ErrUnknownDomain signals a search domain outside messages/users/rooms.
	ErrUnknownDomain = errors.New("unknown search domain")
	// ErrBackendUnavailable signals a failed or timed-out search backend call.
	// Retry policy belongs to the transport client, not this layer.
	ErrBackendUnavailable = errors.New("search backend unavailable")
	// ErrCacheUnavailable signals a cache store failure. Search degrades to a
	// forced miss instead of failing the whole operation.
	ErrCacheUnavailable = errors.New("result cache unavailable")
	// ErrMalformedCacheEntry signals a cached value that failed to decode.
	// Treated identically to a cache miss; the entry is never surfaced.
	ErrMalformedCacheEntry = errors.New("malformed cache entry")
	// ErrVectorizerFailure signals that query vectorization failed.
	ErrVectorizerFailure = errors.New("vectorizer failure")
)
