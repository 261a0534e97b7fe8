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

// Package server exposes the cluster lifecycle over an authenticated HTTP
// API. All state lives in the platform; the server itself is stateless
// apart from per-user rate limiters.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/kbase/cdm-spark-manager/internal/auth"
	"github.com/kbase/cdm-spark-manager/internal/cluster"
)

// Options configures the HTTP server.
type Options struct {
	// BindAddress is the listen address, e.g. ":8000".
	BindAddress string

	// RateLimit and RateBurst bound the per-user request rate. Zero values
	// disable limiting.
	RateLimit float64
	RateBurst int
}

// Server routes lifecycle requests to the cluster manager.
type Server struct {
	manager *cluster.Manager
	auth    auth.Authenticator
	logger  logr.Logger
	options Options

	rateLimit  rate.Limit
	rateBurst  int
	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

// New creates a Server.
func New(manager *cluster.Manager, authenticator auth.Authenticator, logger logr.Logger, options Options) *Server {
	limit := rate.Limit(options.RateLimit)
	burst := options.RateBurst
	if options.RateLimit <= 0 {
		limit = rate.Inf
		burst = 1
	}
	return &Server{
		manager:   manager,
		auth:      authenticator,
		logger:    logger,
		options:   options,
		rateLimit: limit,
		rateBurst: burst,
		limiters:  map[string]*rate.Limiter{},
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /clusters", s.withAuth(s.handleCreate))
	mux.HandleFunc("GET /clusters", s.withAuth(s.handleStatus))
	mux.HandleFunc("DELETE /clusters", s.withAuth(s.handleDelete))
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.withLogging(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.options.BindAddress,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "address", s.options.BindAddress)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(err, "Failed to encode response body")
	}
}

// writeError maps err onto the error payload. Internal failures are logged
// with full detail and surfaced with a generic message only.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	m := mapError(err)
	if m.internal {
		s.logger.Error(err, "Internal error handling request", "method", r.Method, "path", r.URL.Path)
	}

	body := ErrorResponse{Message: m.message}
	if m.errType != nil {
		code := m.errType.code
		label := m.errType.label
		body.Error = &code
		body.ErrorType = &label
	}
	s.writeJSON(w, m.status, body)
}
