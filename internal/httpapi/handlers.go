// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/authgrid/authd/internal/auth"
	"github.com/authgrid/authd/pkg/errutil"
)

// userResponse is the outward user representation. The password hash is
// never serialized under any endpoint.
type userResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`

	Token *tokenResponse `json:"token,omitempty"`
}

type tokenResponse struct {
	TokenID   int64     `json:"token_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// handleRegister creates a new account.
func (s *Server) handleRegister(c *gin.Context) {
	var in struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		s.metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "email and password are required"})
		return
	}

	user, err := s.svc.Register(c.Request.Context(), in.FirstName, in.LastName, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) {
			s.metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "invalid email address"})
			return
		}
		if errors.Is(err, auth.ErrDuplicateEmail) {
			s.metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": "user already exists"})
			return
		}
		s.metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		s.serverError(c, "register failed", err)
		return
	}

	s.metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, newUserResponse(user))
}

// handleLogin authenticates and issues a token. Failures return 401 with no
// detail on whether the email or the password was wrong.
func (s *Server) handleLogin(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		s.metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "email and password are required"})
		return
	}

	result, err := s.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid credentials"})
			return
		}
		s.metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.serverError(c, "login failed", err)
		return
	}

	out := newUserResponse(result.User)
	out.Token = &tokenResponse{
		TokenID:   result.Token.ID,
		Token:     result.Token.Token,
		CreatedAt: result.Token.CreatedAt,
		ExpiresAt: result.Token.ExpiresAt,
	}

	s.metrics.LoginsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, out)
}

// handleUserByToken resolves a user from a (user_id, token) pair. The pair
// may arrive as query parameters or as a JSON body.
func (s *Server) handleUserByToken(c *gin.Context) {
	userID, tokenStr, ok := s.bindUserByToken(c)
	if !ok {
		s.metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "user_id and token are required"})
		return
	}

	user, err := s.svc.ResolveByToken(c.Request.Context(), userID, tokenStr)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			s.metrics.TokenValidationsTotal.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid token"})
			return
		}
		s.metrics.TokenValidationsTotal.WithLabelValues("error").Inc()
		s.serverError(c, "resolve by token failed", err)
		return
	}

	s.metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (s *Server) bindUserByToken(c *gin.Context) (int64, string, bool) {
	if idStr, tok := c.Query("user_id"), c.Query("token"); idStr != "" && tok != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return 0, "", false
		}
		return id, tok, true
	}

	var in struct {
		UserID int64  `json:"user_id"`
		Token  string `json:"token"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.UserID == 0 || in.Token == "" {
		return 0, "", false
	}
	return in.UserID, in.Token, true
}

// serverError logs the cause and answers with a generic failure; internals
// never reach the client.
func (s *Server) serverError(c *gin.Context, msg string, err error) {
	errutil.LogError(s.logger.With("request_id", c.GetString(requestIDKey)), msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal server error"})
}
