// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

//go:build integration

package auth_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/authgrid/authd/internal/auth"
)

var _ = Describe("Credential lifecycle", func() {
	BeforeEach(func() {
		env.truncateAll()
	})

	Describe("Register", func() {
		It("stores a user with a hashed password", func() {
			user, err := env.Service.Register(env.ctx, "Ana", "Novak", "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(BeNumerically(">", 0))
			Expect(user.PasswordHash).To(HavePrefix("$argon2id$"))

			stored, err := env.Users.GetByID(env.ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Email).To(Equal("ana@example.com"))
			Expect(stored.PasswordHash).NotTo(ContainSubstring("S3cret!"))
		})

		It("rejects a duplicate email via the unique constraint", func() {
			_, err := env.Service.Register(env.ctx, "Ana", "Novak", "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Service.Register(env.ctx, "Other", "Person", "ana@example.com", "different")
			Expect(err).To(MatchError(auth.ErrDuplicateEmail))
		})

		It("treats differently-cased emails as distinct accounts", func() {
			_, err := env.Service.Register(env.ctx, "Ana", "Novak", "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Service.Register(env.ctx, "Ana", "Novak", "ANA@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			_, err := env.Service.Register(env.ctx, "Ana", "Novak", "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
		})

		It("issues a persisted token on success", func() {
			result, err := env.Service.Login(env.ctx, "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token.Token).To(HaveLen(auth.TokenLength))
			Expect(result.Token.Token).To(MatchRegexp("^[A-Z0-9]+$"))

			stored, err := env.Tokens.GetByUserAndString(env.ctx, result.User.ID, result.Token.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.ExpiresAt).To(BeTemporally("~", time.Now().Add(auth.TokenValidity), time.Minute))
		})

		It("rejects a wrong password", func() {
			_, err := env.Service.Login(env.ctx, "ana@example.com", "guess")
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects an unknown email", func() {
			_, err := env.Service.Login(env.ctx, "ghost@example.com", "S3cret!")
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("issues distinct tokens for repeated logins", func() {
			first, err := env.Service.Login(env.ctx, "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
			second, err := env.Service.Login(env.ctx, "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Token.Token).NotTo(Equal(second.Token.Token))
		})
	})

	Describe("ResolveByToken", func() {
		var userID int64
		var tokenString string

		BeforeEach(func() {
			_, err := env.Service.Register(env.ctx, "Ana", "Novak", "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
			result, err := env.Service.Login(env.ctx, "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
			userID = result.User.ID
			tokenString = result.Token.Token
		})

		It("resolves a valid pair to the user", func() {
			user, err := env.Service.ResolveByToken(env.ctx, userID, tokenString)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(userID))
			Expect(user.Email).To(Equal("ana@example.com"))
		})

		It("rejects the token under a different user id", func() {
			_, err := env.Service.ResolveByToken(env.ctx, userID+1, tokenString)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects an unknown token string", func() {
			_, err := env.Service.ResolveByToken(env.ctx, userID, strings.Repeat("Z", auth.TokenLength))
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})

		It("rejects a token past its expiry", func() {
			expired, err := env.Tokens.Create(env.ctx, userID,
				strings.Repeat("B", auth.TokenLength), time.Now().UTC().Add(-time.Minute))
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Service.ResolveByToken(env.ctx, userID, expired.Token)
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("UpdatePassword", func() {
		It("replaces the digest and invalidates the old password", func() {
			user, err := env.Service.Register(env.ctx, "Ana", "Novak", "ana@example.com", "S3cret!")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Service.UpdatePassword(env.ctx, user.ID, "NewS3cret!")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Service.Login(env.ctx, "ana@example.com", "S3cret!")
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))

			_, err = env.Service.Login(env.ctx, "ana@example.com", "NewS3cret!")
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
