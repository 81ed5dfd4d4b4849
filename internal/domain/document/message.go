// Package document holds the indexable chat aggregates: messages, users, rooms.
// Constructors validate required fields; Reconstruct hydrates from storage
// without validation.
package document

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/chatsearch/internal/domain"
)

// Message is a chat message (immutable value object).
type Message struct {
	content     string
	userID      string
	roomID      string
	timestamp   time.Time
	messageType string
	metadata    map[string]any
}

// NewMessage validates and creates a Message. The timestamp is assigned at
// index time by the indexing service, never by the caller.
func NewMessage(content, userID, roomID, messageType string, metadata map[string]any) (Message, error) {
	if content == "" {
		return Message{}, fmt.Errorf("%w: content", domain.ErrMissingField)
	}
	if userID == "" {
		return Message{}, fmt.Errorf("%w: userId", domain.ErrMissingField)
	}
	if roomID == "" {
		return Message{}, fmt.Errorf("%w: roomId", domain.ErrMissingField)
	}
	if messageType == "" {
		messageType = "text"
	}
	return Message{
		content:     content,
		userID:      userID,
		roomID:      roomID,
		messageType: messageType,
		metadata:    cloneMetadata(metadata),
	}, nil
}

// ReconstructMessage creates a Message without validation (backend hydration).
func ReconstructMessage(
	content, userID, roomID, messageType string,
	timestamp time.Time, metadata map[string]any,
) Message {
	return Message{
		content: content, userID: userID, roomID: roomID,
		messageType: messageType, timestamp: timestamp, metadata: metadata,
	}
}

// WithTimestamp returns a copy stamped with the given index time.
func (m *Message) WithTimestamp(t time.Time) Message {
	c := *m
	c.timestamp = t
	return c
}

// Content returns the message text.
func (m *Message) Content() string { return m.content }

// UserID returns the author identifier.
func (m *Message) UserID() string { return m.userID }

// RoomID returns the room identifier.
func (m *Message) RoomID() string { return m.roomID }

// Timestamp returns the index-time timestamp (zero until stamped).
func (m *Message) Timestamp() time.Time { return m.timestamp }

// MessageType returns the message type tag.
func (m *Message) MessageType() string { return m.messageType }

// Metadata returns the free-form metadata mapping.
func (m *Message) Metadata() map[string]any { return m.metadata }

// cloneMetadata shallow-copies the schemaless metadata mapping. Values stay
// opaque to this layer.
func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
