// Package store defines the persistence boundary for planner records:
// one durably held record per identity, reachable either through the
// REST backend or through a local on-disk namespace.
package store

import (
	"context"
	"errors"

	"studyplanner/internal/model"
)

// Authentication and sync failures surfaced across the store boundary.
var (
	ErrDuplicateUser     = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrFetchFailed       = errors.New("record fetch failed")
	ErrWriteFailed       = errors.New("record write failed")
)

// Identity is an authenticated user. Token is the opaque credential
// attached to record reads and writes; the local store uses the email
// itself as the token.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// Store durably holds one planner record per identity.
//
// Register and Login fail with ErrDuplicateUser, ErrUserNotFound or
// ErrInvalidCredential. Load failures wrap ErrFetchFailed and Save
// failures wrap ErrWriteFailed, so callers can tell the two sync
// failure modes apart without inspecting transports.
type Store interface {
	// Register creates a new identity with an empty record.
	Register(ctx context.Context, email, password, name string) (Identity, error)

	// Login authenticates an existing identity.
	Login(ctx context.Context, email, password string) (Identity, error)

	// Load fetches the full record for an identity. The returned record
	// is normalized: collections are never nil.
	Load(ctx context.Context, id Identity) (*model.UserRecord, error)

	// Save replaces the stored record for an identity wholesale.
	// Last writer wins; there is no merge.
	Save(ctx context.Context, id Identity, record *model.UserRecord) error
}
