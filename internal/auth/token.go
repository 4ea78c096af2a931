// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package auth

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/samber/oops"
)

// Token string configuration. 64 symbols over a 36-character alphabet gives
// 64*log2(36) ≈ 330 bits of entropy; collisions are not checked for.
const (
	// TokenLength is the fixed length of every token string.
	TokenLength = 64

	// TokenValidity is the expiry horizon applied at issuance. Expiry is
	// set once and never extended.
	TokenValidity = 30 * 24 * time.Hour
)

// tokenAlphabet is the uniform alphabet tokens are drawn from.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Token is a bearer capability granting authenticated access as a specific
// user. Tokens are immutable after creation.
type Token struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsValidAt reports whether the token is still valid at the given instant.
// The comparison is instant-based; callers pass a UTC-normalized clock.
func (t *Token) IsValidAt(at time.Time) bool {
	return t.ExpiresAt.After(at)
}

// IsExpired reports whether the token has expired on the wall clock.
func (t *Token) IsExpired() bool {
	return !t.IsValidAt(time.Now().UTC())
}

// GenerateTokenString returns a fresh random token string of TokenLength
// characters drawn uniformly from tokenAlphabet using crypto/rand.
func GenerateTokenString() (string, error) {
	// Rejection sampling keeps the distribution uniform: 252 is the
	// largest multiple of len(tokenAlphabet) below 256.
	const limit = 252

	out := make([]byte, 0, TokenLength)
	buf := make([]byte, TokenLength)
	for len(out) < TokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", oops.Code("TOKEN_GENERATE_FAILED").
				With("operation", "crypto/rand.Read").
				Wrap(err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == TokenLength {
				break
			}
		}
	}
	return string(out), nil
}

// TokenRepository manages token persistence. Tokens are never updated or
// deleted here; rows outlive their expiry until purged out-of-band.
type TokenRepository interface {
	// Create persists a new token row and returns the full record,
	// including the storage-assigned ID and creation timestamp.
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) (*Token, error)

	// GetByUserAndString retrieves the row matching both the user ID and
	// the exact token string. Returns ErrNotFound if no such pair exists.
	// Lookup is by the pair, never by token string alone.
	GetByUserAndString(ctx context.Context, userID int64, token string) (*Token, error)
}
