// Package user implements the identity store: registration, token
// validation, and write-back persistence of user records.
package user

import (
	"context"
	"errors"
)

// Errors surfaced to the transport layer. The messages are the exact
// strings carried in the client-facing error envelope.
var (
	ErrNicknameMissing = errors.New("Nickname missing")
	ErrPasswordMissing = errors.New("Password missing")
	ErrNicknameTaken   = errors.New("Nickname taken")
	ErrTokenCollision  = errors.New("Internal server error")
	ErrInvalidToken    = errors.New("Invalid token")
)

// User is a persisted identity record. Timestamps are Unix milliseconds,
// matching the records the original server wrote. SavedAt < ModifiedAt
// marks the record dirty (pending flush).
type User struct {
	Token        string `json:"token"`
	Nickname     string `json:"nickname"`
	PasswordHash string `json:"password"`
	CreatedAt    int64  `json:"created"`
	ModifiedAt   int64  `json:"modified"`
	SavedAt      int64  `json:"saved"`
}

// Dirty reports whether the record has unsaved modifications.
func (u *User) Dirty() bool {
	return u.ModifiedAt > u.SavedAt
}

// Repository persists user records, one durable record per user, keyed by
// token. Implementations live in internal/repository.
type Repository interface {
	// LoadAll reads every persisted record. A storage location that does
	// not exist yet is created and yields an empty result, not an error.
	LoadAll(ctx context.Context) ([]*User, error)

	// Save durably writes a single record keyed by its token.
	Save(ctx context.Context, u *User) error
}
