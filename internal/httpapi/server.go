// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

// Package httpapi exposes the credential service over HTTP. It is thin
// glue: all semantics live in the auth package, and this layer only binds
// requests, maps errors to status codes, and records metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/authgrid/authd/internal/auth"
	"github.com/authgrid/authd/internal/observability"
)

// Server is the public HTTP API server.
type Server struct {
	addr       string
	svc        *auth.Service
	metrics    *observability.Metrics
	logger     *slog.Logger
	engine     *gin.Engine
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer wires the auth service into a gin engine.
func NewServer(addr string, svc *auth.Service, metrics *observability.Metrics, logger *slog.Logger, corsOrigins []string) (*Server, error) {
	if svc == nil {
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("auth service is required")
	}
	if metrics == nil {
		return nil, oops.Code("HTTPAPI_INVALID").Errorf("metrics are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		addr:    addr,
		svc:     svc,
		metrics: metrics,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(RequestLogger(logger))
	engine.Use(CORS(corsOrigins))

	engine.POST("/register", s.handleRegister)
	engine.POST("/login", s.handleLogin)
	engine.GET("/user-by-token", s.handleUserByToken)

	s.engine = engine
	return s, nil
}

// Handler returns the underlying HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving the API. The returned channel receives any serve
// error and is closed on graceful shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("http api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("http api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("http api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown http api server").Wrap(err)
		}
	}

	s.logger.Info("http api server stopped")
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
