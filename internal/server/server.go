// Copyright 2026 The Preflight Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the scanner over HTTP so CI pipelines and
// registries can submit manifests for pre-execution review.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/peg/preflight/internal/audit"
	"github.com/peg/preflight/internal/manifest"
	"github.com/peg/preflight/internal/scanner"
)

// maxRequestBody is the maximum allowed request body size (1MB).
const maxRequestBody = 1 << 20

// Server is Preflight's HTTP scan API.
type Server struct {
	scanner *scanner.Scanner
	sink    audit.Sink
	logger  *slog.Logger

	mu         sync.Mutex
	server     *http.Server
	listenAddr string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditSink records every API scan to the given sink.
func WithAuditSink(sink audit.Sink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// New creates a scan API server.
func New(opts ...Option) *Server {
	s := &Server{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.scanner = scanner.New(s.logger)
	return s
}

// ListenAndServe starts serving HTTP requests at addr.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(listener)
}

// Serve starts serving HTTP requests on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	srv := s.newHTTPServer(listener.Addr().String(), s.handler())

	s.mu.Lock()
	s.server = srv
	s.listenAddr = listener.Addr().String()
	s.mu.Unlock()

	s.logger.Info("server: listening", "addr", s.listenAddr)
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}

// Addr returns the bound listen address, once serving.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/scan", s.handleScan)
	mux.HandleFunc("POST /v1/scan/manifest", s.handleScanManifest)
	mux.HandleFunc("GET /v1/tiers", s.handleTiers)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", MetricsHandler())
	return mux
}

// scanRequest is the POST /v1/scan payload.
type scanRequest struct {
	Commands []string `json:"commands"`
	Tier     string   `json:"tier,omitempty"`
}

// scanManifestRequest is the POST /v1/scan/manifest payload: a raw
// manifest document submitted inline.
type scanManifestRequest struct {
	Manifest string `json:"manifest"`
	Tier     string `json:"tier,omitempty"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Commands) == 0 {
		writeError(w, http.StatusBadRequest, "no commands provided")
		return
	}
	s.runScan(w, req.Commands, req.Tier, "")
}

func (s *Server) handleScanManifest(w http.ResponseWriter, r *http.Request) {
	var req scanManifestRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Manifest == "" {
		writeError(w, http.StatusBadRequest, "no manifest provided")
		return
	}

	m, err := manifest.Parse([]byte(req.Manifest))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.runScan(w, m.Commands(), req.Tier, m.Name)
}

func (s *Server) runScan(w http.ResponseWriter, commands []string, tierKey, manifestName string) {
	if tierKey == "" {
		tierKey = scanner.DefaultTier().Key
	}

	start := time.Now()
	res, err := s.scanner.ScanWithTierKey(commands, tierKey)
	if err != nil {
		var unknownErr *scanner.UnknownTierError
		if errors.As(err, &unknownErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	RecordScan(res.Severity.String(), res.Tier, time.Since(start))

	if s.sink != nil {
		if err := s.sink.Write(audit.NewEvent("api", manifestName, len(commands), res)); err != nil {
			s.logger.Error("server: write audit event", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTiers(w http.ResponseWriter, _ *http.Request) {
	type tierInfo struct {
		Key               string   `json:"key"`
		AllowedCategories []string `json:"allowed_categories"`
		Warning           string   `json:"warning,omitempty"`
	}

	tiers := scanner.Tiers()
	out := make([]tierInfo, 0, len(tiers))
	for _, tier := range tiers {
		info := tierInfo{Key: tier.Key, Warning: tier.Warning}
		for _, cat := range scanner.Categories() {
			if tier.Allows(cat) {
				info.AllowedCategories = append(info.AllowedCategories, cat.String())
			}
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"tiers": out, "default": scanner.DefaultTier().Key})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a size-limited JSON request body, writing the error
// response itself when decoding fails.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
