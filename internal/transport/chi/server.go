// Package chi exposes the search facade over HTTP: index and search endpoints
// per domain, plus health and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chatsearch/internal/domain"
	"github.com/kailas-cloud/chatsearch/internal/domain/document"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/intent"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/chatsearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/chatsearch/internal/usecase/index"
	searchuc "github.com/kailas-cloud/chatsearch/internal/usecase/search"
)

// ErrorCode is the machine-readable error tag in the JSON error envelope.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeInvalidIntent      ErrorCode = "invalid_intent"
	CodeMissingField       ErrorCode = "missing_field"
	CodeUnknownDomain      ErrorCode = "unknown_domain"
	CodeBackendUnavailable ErrorCode = "backend_unavailable"
	CodeVectorizerFailure  ErrorCode = "vectorizer_failure"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecase services to HTTP handlers.
type Server struct {
	search        *searchuc.Service
	index         *indexuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	index *indexuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		index:  index,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidIntent, http.StatusBadRequest, CodeInvalidIntent),
		sentinelHandler(domain.ErrMissingField, http.StatusBadRequest, CodeMissingField),
		sentinelHandler(domain.ErrUnknownDomain, http.StatusBadRequest, CodeUnknownDomain),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, CodeBackendUnavailable),
		sentinelHandler(domain.ErrVectorizerFailure, http.StatusBadGateway, CodeVectorizerFailure),
	}
	return s
}

// Routes mounts the API handlers on a router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search/{domain}", s.SearchDomain)
	r.Post("/index/{domain}", s.IndexDocument)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchRequest is the body of POST /search/{domain}.
type SearchRequest struct {
	Query   string            `json:"query"`
	Context string            `json:"context,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Mode    string            `json:"mode,omitempty"`
	Limit   int               `json:"limit,omitempty"`
	UserID  string            `json:"userId,omitempty"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Items  []result.Hit `json:"items"`
	Total  int          `json:"total"`
	Domain string       `json:"domain"`
	Mode   string       `json:"mode"`
}

// SearchDomain handles POST /search/{domain}.
func (s *Server) SearchDomain(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseSearchDomain(chi.URLParam(r, "domain"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	m := mode.Lexical
	if req.Mode != "" {
		m = mode.Mode(req.Mode)
		if !m.IsValid() {
			writeError(w, http.StatusBadRequest, CodeInvalidIntent, "mode must be lexical or semantic")
			return
		}
	}

	in, err := intent.New(req.Query, req.Filters, req.Context, req.Limit, req.UserID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits, err := s.search.Search(r.Context(), d, &in, m)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Items:  hits,
		Total:  len(hits),
		Domain: string(d),
		Mode:   m.String(),
	})
}

// IndexRequest is the body of POST /index/{domain}. Field relevance depends on
// the target domain.
type IndexRequest struct {
	Content     string         `json:"content,omitempty"`
	UserID      string         `json:"userId,omitempty"`
	RoomID      string         `json:"roomId,omitempty"`
	MessageType string         `json:"messageType,omitempty"`
	Username    string         `json:"username,omitempty"`
	Email       string         `json:"email,omitempty"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Members     []string       `json:"members,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// IndexDocument handles POST /index/{domain}.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseSearchDomain(chi.URLParam(r, "domain"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	switch d {
	case domain.Messages:
		msg, err := document.NewMessage(req.Content, req.UserID, req.RoomID, req.MessageType, req.Metadata)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		err = s.index.IndexMessage(r.Context(), msg)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

	case domain.Users:
		u, err := document.NewUser(req.UserID, req.Username, req.Email, req.Metadata)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		err = s.index.IndexUser(r.Context(), u)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}

	case domain.Rooms:
		room, err := document.NewRoom(req.RoomID, req.Name, req.Description, req.Members, req.Metadata)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		err = s.index.IndexRoom(r.Context(), room)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidIntent,
		domain.ErrMissingField,
		domain.ErrUnknownDomain,
		domain.ErrBackendUnavailable,
		domain.ErrVectorizerFailure,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
