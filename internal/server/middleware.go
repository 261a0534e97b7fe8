/*
Copyright 2025 The CDM Spark Manager authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kbase/cdm-spark-manager/internal/auth"
	"github.com/kbase/cdm-spark-manager/internal/cluster"
)

type contextKey int

const identityKey contextKey = 0

const bearerScheme = "Bearer"

// identityFrom returns the verified identity stored by the auth middleware.
func identityFrom(ctx context.Context) (cluster.Identity, bool) {
	id, ok := ctx.Value(identityKey).(cluster.Identity)
	return id, ok
}

// authHandler is a handler that runs after authentication.
type authHandler func(w http.ResponseWriter, r *http.Request, id cluster.Identity)

// withAuth resolves the bearer credential before invoking next. The header
// must carry the Bearer scheme; a missing header and a malformed header are
// distinct failures.
func (s *Server) withAuth(next authHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			s.writeError(w, r, &auth.MissingTokenError{Message: "authorization header required"})
			return
		}
		scheme, token, found := strings.Cut(header, " ")
		if !found || strings.TrimSpace(token) == "" {
			s.writeError(w, r, &auth.InvalidHeaderError{
				Message: "authorization header requires " + bearerScheme + " scheme followed by token",
			})
			return
		}
		if !strings.EqualFold(scheme, bearerScheme) {
			// The received scheme is not echoed back, it might be a token.
			s.writeError(w, r, &auth.InvalidHeaderError{
				Message: "authorization header requires " + bearerScheme + " scheme",
			})
			return
		}

		id, err := s.auth.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		if !s.limiterFor(id.Username).Allow() {
			s.writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Message: "too many requests"})
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, id)
		next(w, r.WithContext(ctx), id)
	}
}

// limiterFor returns the per-user rate limiter, creating it on first use.
func (s *Server) limiterFor(user string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()
	limiter, ok := s.limiters[user]
	if !ok {
		limiter = rate.NewLimiter(s.rateLimit, s.rateBurst)
		s.limiters[user] = limiter
	}
	return limiter
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

// withLogging logs one line per request with method, path, status and
// duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info("Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start).String(),
		)
	})
}
