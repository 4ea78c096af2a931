// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// dummyDigest is verified against when a login targets an unknown email, so
// the response time does not reveal whether the account exists. It is not a
// real credential and matches no password.
//
//nolint:gosec // G101: intentionally fake digest for timing uniformity, not a credential.
const dummyDigest = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// LoginResult is the outcome of a successful login: the authenticated user
// and the freshly issued token. Callers must capture the token string here;
// it is not returned by any later operation.
type LoginResult struct {
	User  *User
	Token *Token
}

// Service orchestrates the credential store, the password hasher, and the
// token repository. Each call is independent and stateless; no retries are
// attempted, and storage failures propagate to the caller.
type Service struct {
	users  UserRepository
	tokens TokenRepository
	hasher PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a Service, validating its dependencies.
func NewService(users UserRepository, tokens TokenRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, tokens, hasher, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, tokens TokenRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("user repository is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("token repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register creates a new account with a hashed password. A colliding email
// returns ErrDuplicateEmail with storage unchanged.
func (s *Service) Register(ctx context.Context, firstName, lastName, email, password string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: digest,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, oops.Code("AUTH_DUPLICATE_EMAIL").
				With("email", email).
				Wrap(ErrDuplicateEmail)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login authenticates by email and password and, on success, issues a token
// bound to the user. Unknown email and wrong password both yield
// ErrInvalidCredentials; the hash loaded during lookup is reused for
// verification, so no second fetch occurs.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	target := dummyDigest
	exists := false
	if lookupErr == nil {
		target = user.PasswordHash
		exists = true
	} else if !errors.Is(lookupErr, ErrNotFound) {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by email").
			Wrap(lookupErr)
	}

	// Verification always runs, even for unknown emails, to keep timing
	// uniform across the two failure causes.
	ok, verifyErr := s.hasher.Verify(password, target)
	if verifyErr != nil {
		if !exists {
			return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		// A digest the hasher cannot parse means corrupted stored data,
		// never a user error.
		return nil, oops.Code("AUTH_HASH_INVALID").
			With("operation", "verify password").
			With("user_id", user.ID).
			Wrap(verifyErr)
	}
	if !exists || !ok {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{User: user, Token: token}, nil
}

// ResolveByToken validates the (userID, token) pair and, if the token is
// present and unexpired, loads the user it belongs to. Lookup is by the
// exact pair: a token string never resolves against a different user ID.
func (s *Service) ResolveByToken(ctx context.Context, userID int64, tokenString string) (*User, error) {
	token, err := s.tokens.GetByUserAndString(ctx, userID, tokenString)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_INVALID_TOKEN").Wrap(ErrInvalidToken)
		}
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get token").
			Wrap(err)
	}

	if !token.IsValidAt(s.now()) {
		return nil, oops.Code("AUTH_INVALID_TOKEN").
			With("expired_at", token.ExpiresAt).
			Wrap(ErrInvalidToken)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// A valid token row pointing at a missing user is a data
		// inconsistency, not an authorization failure.
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get user by id").
			With("user_id", userID).
			Wrap(err)
	}
	return user, nil
}

// UpdatePassword hashes the new password and overwrites the stored digest.
func (s *Service) UpdatePassword(ctx context.Context, userID int64, newPassword string) (*User, error) {
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdatePassword(ctx, userID, digest)
	if err != nil {
		return nil, oops.Code("AUTH_PASSWORD_UPDATE_FAILED").
			With("user_id", userID).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "password updated", "user_id", userID)
	return user, nil
}

// issueToken mints a token string and persists it with the fixed expiry
// horizon. Expiry is computed once, at issuance.
func (s *Service) issueToken(ctx context.Context, userID int64) (*Token, error) {
	str, err := GenerateTokenString()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(TokenValidity)
	token, err := s.tokens.Create(ctx, userID, str, expiresAt)
	if err != nil {
		return nil, oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("operation", "persist token").
			With("user_id", userID).
			Wrap(err)
	}
	return token, nil
}
