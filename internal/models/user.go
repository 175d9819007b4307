package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
//
// Only ID takes part in balance arithmetic. CustomID and Email are used for
// lookup and search.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// CustomID is a human-shareable alias (e.g., "alice42"). Unique when set.
	CustomID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique).
	// Used for login and lookup.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for shadow users that have not registered yet.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and creation timestamps.
func NewUser(email, name, customID, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		CustomID:     customID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DisplayName returns the user's name, falling back to the custom ID and
// finally the ID itself.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	if u.CustomID != "" {
		return u.CustomID
	}
	return u.ID
}
