package health

import "context"

// StorePinger checks cache store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// BackendPinger checks search backend availability.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

// VectorizerChecker checks vectorizer provider availability.
type VectorizerChecker interface {
	HealthCheck(ctx context.Context) error
}
