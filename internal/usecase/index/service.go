// Package index ingests chat documents into the search backend: messages get
// an index-time timestamp and (when a vectorizer is wired) a content vector.
package index

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chatsearch/internal/domain"
	"github.com/kailas-cloud/chatsearch/internal/domain/document"
	"github.com/kailas-cloud/chatsearch/internal/domain/search/query"
)

// Service indexes validated documents.
type Service struct {
	backend Backend
	vec     Vectorizer
	logger  *zap.Logger
	now     func() time.Time
}

// New creates an indexing service. vec may be nil when semantic search is not
// configured.
func New(backend Backend, vec Vectorizer, logger *zap.Logger) *Service {
	return &Service{backend: backend, vec: vec, logger: logger, now: time.Now}
}

// WithClock overrides the timestamp source (used by tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IndexMessage stamps the message with the current time, attaches a content
// vector when possible, and submits it. A vectorizer failure downgrades the
// document to lexical-only rather than failing the ingest.
func (s *Service) IndexMessage(ctx context.Context, msg document.Message) error {
	stamped := msg.WithTimestamp(s.now().UTC())

	body := map[string]any{
		"content":     stamped.Content(),
		"userId":      stamped.UserID(),
		"roomId":      stamped.RoomID(),
		"timestamp":   stamped.Timestamp().Format(time.RFC3339),
		"messageType": stamped.MessageType(),
	}
	if md := stamped.Metadata(); len(md) > 0 {
		body["metadata"] = md
	}

	if s.vec != nil {
		vec, err := s.vec.Vectorize(ctx, stamped.Content())
		if err != nil {
			s.logger.Warn("Indexing message without content vector",
				zap.String("roomId", stamped.RoomID()), zap.Error(err))
		} else {
			body[query.VectorField] = vec
		}
	}

	if err := s.backend.Index(ctx, domain.Messages.Index(), body); err != nil {
		return fmt.Errorf("index message: %w", err)
	}
	return nil
}

// IndexUser submits a user profile for lexical search.
func (s *Service) IndexUser(ctx context.Context, u document.User) error {
	body := map[string]any{
		"userId":   u.UserID(),
		"username": u.Username(),
		"email":    u.Email(),
	}
	if md := u.Metadata(); len(md) > 0 {
		body["metadata"] = md
	}

	if err := s.backend.Index(ctx, domain.Users.Index(), body); err != nil {
		return fmt.Errorf("index user: %w", err)
	}
	return nil
}

// IndexRoom submits a room with its membership list.
func (s *Service) IndexRoom(ctx context.Context, r document.Room) error {
	body := map[string]any{
		"roomId":  r.RoomID(),
		"name":    r.Name(),
		"members": r.Members(),
	}
	if r.Description() != "" {
		body["description"] = r.Description()
	}
	if md := r.Metadata(); len(md) > 0 {
		body["metadata"] = md
	}

	if err := s.backend.Index(ctx, domain.Rooms.Index(), body); err != nil {
		return fmt.Errorf("index room: %w", err)
	}
	return nil
}
