// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgrid/authd/internal/auth"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func TestGenerateTokenString(t *testing.T) {
	t.Run("fixed length over the uppercase-digit alphabet", func(t *testing.T) {
		token, err := auth.GenerateTokenString()
		require.NoError(t, err)
		assert.Len(t, token, auth.TokenLength)
		for _, r := range token {
			assert.True(t, strings.ContainsRune(tokenAlphabet, r), "unexpected symbol %q", r)
		}
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		first, err := auth.GenerateTokenString()
		require.NoError(t, err)
		second, err := auth.GenerateTokenString()
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestTokenValidity(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, auth.TokenValidity)
}

func TestTokenIsValidAt(t *testing.T) {
	now := time.Now().UTC()
	token := auth.Token{
		ID:        1,
		UserID:    7,
		Token:     strings.Repeat("A", auth.TokenLength),
		CreatedAt: now.Add(-time.Hour),
	}

	t.Run("expiry one second in the future passes", func(t *testing.T) {
		token.ExpiresAt = now.Add(time.Second)
		assert.True(t, token.IsValidAt(now))
	})

	t.Run("expiry one second in the past fails", func(t *testing.T) {
		token.ExpiresAt = now.Add(-time.Second)
		assert.False(t, token.IsValidAt(now))
	})

	t.Run("expiry exactly now fails", func(t *testing.T) {
		token.ExpiresAt = now
		assert.False(t, token.IsValidAt(now))
	})
}
