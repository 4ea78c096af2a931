// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/authgrid/authd/internal/auth"
)

// TokenRepository implements auth.TokenRepository using PostgreSQL.
// Rows are insert-only: nothing here updates or deletes tokens, so a later
// revocation flag or purge job can be added without touching this contract.
type TokenRepository struct {
	pool poolIface
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(pool poolIface) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Create persists a token row. The id and created_at come back from the
// database so the returned record matches what was stored.
func (r *TokenRepository) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) (*auth.Token, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, userID, token, expiresAt)

	t := auth.Token{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, oops.Code("TOKEN_CREATE_FAILED").
			With("operation", "insert token").
			With("user_id", userID).
			Wrap(err)
	}
	return &t, nil
}

// GetByUserAndString retrieves the row matching both user ID and token
// string. The pair is the lookup key; a token string alone matches nothing.
func (r *TokenRepository) GetByUserAndString(ctx context.Context, userID int64, token string) (*auth.Token, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at
		FROM user_tokens
		WHERE user_id = $1 AND token = $2
	`, userID, token)

	var t auth.Token
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TOKEN_NOT_FOUND").
			With("user_id", userID).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TOKEN_GET_FAILED").
			With("operation", "get token by user and string").
			With("user_id", userID).
			Wrap(err)
	}
	return &t, nil
}

// Compile-time interface check.
var _ auth.TokenRepository = (*TokenRepository)(nil)
