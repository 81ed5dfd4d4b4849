package document

import (
	"fmt"

	"github.com/kailas-cloud/chatsearch/internal/domain"
)

// User is a searchable chat user profile (immutable value object).
type User struct {
	userID   string
	username string
	email    string
	metadata map[string]any
}

// NewUser validates and creates a User.
func NewUser(userID, username, email string, metadata map[string]any) (User, error) {
	if userID == "" {
		return User{}, fmt.Errorf("%w: userId", domain.ErrMissingField)
	}
	if username == "" {
		return User{}, fmt.Errorf("%w: username", domain.ErrMissingField)
	}
	if email == "" {
		return User{}, fmt.Errorf("%w: email", domain.ErrMissingField)
	}
	return User{
		userID:   userID,
		username: username,
		email:    email,
		metadata: cloneMetadata(metadata),
	}, nil
}

// ReconstructUser creates a User without validation (backend hydration).
func ReconstructUser(userID, username, email string, metadata map[string]any) User {
	return User{userID: userID, username: username, email: email, metadata: metadata}
}

// UserID returns the user identifier.
func (u *User) UserID() string { return u.userID }

// Username returns the display name (boosted search field).
func (u *User) Username() string { return u.username }

// Email returns the email address.
func (u *User) Email() string { return u.email }

// Metadata returns the free-form metadata mapping.
func (u *User) Metadata() map[string]any { return u.metadata }
