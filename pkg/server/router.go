// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
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

package server

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"github.com/repodeploy/repodeploy/pkg/serializer"
)

// setupRoutes registers system endpoints without middleware and every
// configured handler behind the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()
	s.allowed = newMethodIndex()

	// System endpoints (no rate limiting)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	for _, pattern := range []string{"GET /health", "GET /ready", "GET /metrics"} {
		s.allowed.add(pattern)
	}

	for pattern, handler := range s.config.Handlers {
		mux.HandleFunc(pattern, s.withMiddleware(handler))
		s.allowed.add(pattern)
	}

	return mux
}

// methodIndex answers which methods a path accepts, so requests that only
// miss on method get 405 instead of falling through to the root handler.
type methodIndex struct {
	paths   *http.ServeMux
	methods map[string][]string
}

func newMethodIndex() *methodIndex {
	return &methodIndex{
		paths:   http.NewServeMux(),
		methods: make(map[string][]string),
	}
}

func (m *methodIndex) add(pattern string) {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok || path == "/" {
		return
	}
	if _, seen := m.methods[path]; !seen {
		m.paths.Handle(path, http.NotFoundHandler())
	}
	m.methods[path] = append(m.methods[path], method)
	sort.Strings(m.methods[path])
}

// allow returns the methods registered for r's path, or nil.
func (m *methodIndex) allow(r *http.Request) []string {
	if m == nil {
		return nil
	}
	_, pattern := m.paths.Handler(r)
	if pattern == "" {
		return nil
	}
	return m.methods[pattern]
}

// routes lists the registered patterns in a stable order.
func (s *Server) routes() []string {
	out := []string{"GET /health", "GET /ready", "GET /metrics"}
	for pattern := range s.config.Handlers {
		if pattern == "/" {
			continue
		}
		out = append(out, pattern)
	}
	sort.Strings(out)
	return out
}

// handleRoot serves the route index on "/" and 404 for any unmatched path.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		if methods := s.allowed.allow(r); len(methods) > 0 {
			w.Header().Set("Allow", strings.Join(methods, ", "))
			WriteError(w, r, http.StatusMethodNotAllowed, rderrors.ErrCodeMethodNotAllowed,
				"Method not allowed", false, map[string]any{
					"method": r.Method,
					"path":   r.URL.Path,
				})
			return
		}
		WriteError(w, r, http.StatusNotFound, rderrors.ErrCodeNotFound,
			"Route not found", false, map[string]any{
				"path": r.URL.Path,
			})
		return
	}

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		WriteError(w, r, http.StatusMethodNotAllowed, rderrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method": r.Method,
			})
		return
	}

	slog.Debug("handling default route",
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
	}{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes:    s.routes(),
	}

	s.mu.RLock()
	resp.Ready = s.ready
	s.mu.RUnlock()

	serializer.RespondJSON(w, http.StatusOK, resp)
}
