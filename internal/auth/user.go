// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package auth

import (
	"context"
	"strings"

	"github.com/samber/oops"
)

// User represents a directory account. The ID is assigned by storage on
// creation and never changes. PasswordHash is an opaque digest produced by a
// PasswordHasher; the raw password is never stored.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
}

// ValidateEmail checks the minimal shape required of an email address.
// Emails are treated as case-sensitive, opaque identifiers: two addresses
// differing only in case are distinct accounts.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").
			Wrapf(ErrInvalidEmail, "email cannot be empty")
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return oops.Code("AUTH_INVALID_EMAIL").
			With("email", email).
			Wrapf(ErrInvalidEmail, "email must contain a local part and a domain")
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user and returns it with the allocated ID.
	// A colliding email yields ErrDuplicateEmail and leaves storage
	// unchanged; uniqueness is enforced by the store itself, not by a
	// prior existence check.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by exact (case-sensitive) email match.
	// Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePassword overwrites the stored password hash and returns the
	// updated record. Idempotent under repeated identical calls.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (*User, error)
}
