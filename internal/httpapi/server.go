// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

// Package httpapi exposes the JSON API for account registration, login,
// and character management.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/characterforge/characterforge/internal/auth"
	"github.com/characterforge/characterforge/internal/game"
	"github.com/characterforge/characterforge/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// Server serves the public JSON API.
type Server struct {
	addr       string
	auth       *auth.Service
	resolver   *auth.Resolver
	characters *game.CharacterService
	metrics    *observability.Metrics
	logger     *slog.Logger

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates an API server bound to addr. The metrics argument
// may be nil, in which case no request metrics are recorded.
func NewServer(addr string, authSvc *auth.Service, resolver *auth.Resolver, characters *game.CharacterService, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if authSvc == nil {
		return nil, oops.Code("API_SERVER_INVALID").Errorf("auth service is required")
	}
	if resolver == nil {
		return nil, oops.Code("API_SERVER_INVALID").Errorf("identity resolver is required")
	}
	if characters == nil {
		return nil, oops.Code("API_SERVER_INVALID").Errorf("character service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:       addr,
		auth:       authSvc,
		resolver:   resolver,
		characters: characters,
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// Handler builds the routing table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/classes", s.handleListClasses)
	mux.HandleFunc("GET /api/species", s.handleListSpecies)

	mux.HandleFunc("POST /api/characters", s.requireUser(s.handleCreateCharacter))
	mux.HandleFunc("GET /api/characters", s.requireUser(s.handleListCharacters))
	mux.HandleFunc("GET /api/characters/{id}", s.requireUser(s.handleGetCharacter))
	mux.HandleFunc("DELETE /api/characters/{id}", s.requireUser(s.handleDeleteCharacter))

	return s.instrument(mux)
}

// Start begins serving in a background goroutine. The returned channel
// receives the terminal serve error, if any.
func (s *Server) Start() (<-chan error, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, oops.Code("API_LISTEN_FAILED").
			With("addr", s.addr).
			Wrapf(err, "failed to listen on %s", s.addr)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", listener.Addr().String())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// up to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return oops.Code("API_SHUTDOWN_FAILED").Wrapf(err, "failed to shut down api server")
	}
	return nil
}

// Addr returns the bound listen address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}
