package document

import (
	"fmt"

	"github.com/kailas-cloud/chatsearch/internal/domain"
)

// Room is a searchable chat room (immutable value object).
// Members is a filter field: room search only surfaces rooms the requesting
// user belongs to.
type Room struct {
	roomID      string
	name        string
	description string
	members     []string
	metadata    map[string]any
}

// NewRoom validates and creates a Room.
func NewRoom(roomID, name, description string, members []string, metadata map[string]any) (Room, error) {
	if roomID == "" {
		return Room{}, fmt.Errorf("%w: roomId", domain.ErrMissingField)
	}
	if name == "" {
		return Room{}, fmt.Errorf("%w: name", domain.ErrMissingField)
	}
	if len(members) == 0 {
		return Room{}, fmt.Errorf("%w: members", domain.ErrMissingField)
	}
	return Room{
		roomID:      roomID,
		name:        name,
		description: description,
		members:     append([]string(nil), members...),
		metadata:    cloneMetadata(metadata),
	}, nil
}

// ReconstructRoom creates a Room without validation (backend hydration).
func ReconstructRoom(
	roomID, name, description string,
	members []string, metadata map[string]any,
) Room {
	return Room{roomID: roomID, name: name, description: description, members: members, metadata: metadata}
}

// RoomID returns the room identifier.
func (r *Room) RoomID() string { return r.roomID }

// Name returns the room name.
func (r *Room) Name() string { return r.name }

// Description returns the room description.
func (r *Room) Description() string { return r.description }

// Members returns the member user IDs.
func (r *Room) Members() []string { return r.members }

// Metadata returns the free-form metadata mapping.
func (r *Room) Metadata() map[string]any { return r.metadata }

// HasMember reports whether the given user belongs to the room.
func (r *Room) HasMember(userID string) bool {
	for _, m := range r.members {
		if m == userID {
			return true
		}
	}
	return false
}
