package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockVectorizerChecker struct {
	err error
}

func (m *mockVectorizerChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockVectorizerChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"cache", "backend", "vectorizer"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_CacheDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")}, &mockPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["backend"] != CheckOK {
		t.Errorf("expected backend %q, got %q", CheckOK, r.Checks["backend"])
	}
}

func TestCheck_BackendDown(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("no living connections")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["backend"] != CheckError {
		t.Errorf("expected backend %q, got %q", CheckError, r.Checks["backend"])
	}
}

func TestCheck_NoVectorizer(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, nil)
	r := svc.Check(context.Background())

	if _, ok := r.Checks["vectorizer"]; ok {
		t.Error("vectorizer check must be absent when not configured")
	}
	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
}

func TestCheck_VectorizerDown(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockVectorizerChecker{err: errors.New("401")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["vectorizer"] != CheckError {
		t.Errorf("expected vectorizer %q, got %q", CheckError, r.Checks["vectorizer"])
	}
}
