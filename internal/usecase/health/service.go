package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. The cache degrading is survivable;
	// the backend degrading means searches fail.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store      StorePinger
	backend    BackendPinger
	vectorizer VectorizerChecker
}

// New creates a Service. vectorizer can be nil.
func New(store StorePinger, backend BackendPinger, vectorizer VectorizerChecker) *Service {
	return &Service{store: store, backend: backend, vectorizer: vectorizer}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks["cache"] = CheckError
	} else {
		checks["cache"] = CheckOK
	}

	if err := s.backend.Ping(ctx); err != nil {
		checks["backend"] = CheckError
	} else {
		checks["backend"] = CheckOK
	}

	if s.vectorizer != nil {
		if err := s.vectorizer.HealthCheck(ctx); err != nil {
			checks["vectorizer"] = CheckError
		} else {
			checks["vectorizer"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
