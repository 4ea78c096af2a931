// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package auth

import "errors"

// Sentinel errors used for control flow across the service boundary.
// They are wrapped with oops codes where they occur, so callers can use
// errors.Is while logs keep structured context.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when user creation collides with an
	// existing email. Storage is left unchanged.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidEmail is returned when an email fails shape validation.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidCredentials is returned on login failure. It deliberately
	// does not distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token is absent or expired.
	ErrInvalidToken = errors.New("invalid token")
)
