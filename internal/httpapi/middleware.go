// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/characterforge/characterforge/internal/auth"
)

// authedHandler is a handler that runs with a resolved user.
type authedHandler func(w http.ResponseWriter, r *http.Request, user *auth.User)

// requireUser resolves the bearer token before invoking next. Requests
// with a missing, malformed, expired, or otherwise invalid token are
// rejected with 401 and never reach next.
func (s *Server) requireUser(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.rejectUnauthenticated(w)
			return
		}

		user, err := s.resolver.Resolve(r.Context(), token)
		if err != nil {
			s.rejectUnauthenticated(w)
			return
		}

		next(w, r, user)
	}
}

func (s *Server) rejectUnauthenticated(w http.ResponseWriter) {
	if s.metrics != nil {
		s.metrics.AuthFailures.Inc()
	}
	writeError(w, http.StatusUnauthorized, "Could not validate credentials")
}

// bearerToken extracts the token from an "Authorization: Bearer x"
// header. The scheme comparison is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps the router with request logging and, when metrics
// are configured, per-route counters and latency histograms. The route
// label uses the matched mux pattern, not the raw path, to keep label
// cardinality bounded.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", elapsed,
		)

		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
			s.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		}
	})
}
