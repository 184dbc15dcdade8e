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
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes))
	if s == nil {
		t.Fatal("expected server instance, got nil")
		return
	}

	if s.config == nil {
		t.Error("expected config to be initialized")
	}

	if s.httpServer == nil {
		t.Error("expected httpServer to be initialized")
	}

	if s.rateLimiter == nil {
		t.Error("expected rateLimiter to be initialized")
	}
}

func TestGracefulShutdown(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	cfg := NewConfig()
	cfg.Port = 18080 // Use a different port to avoid conflicts
	cfg.ShutdownTimeout = 100 * time.Millisecond
	cfg.Handlers = routes

	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start(ctx)
	}()

	// Wait for server to start
	time.Sleep(50 * time.Millisecond)

	// Cancel context to trigger shutdown
	cancel()

	// Wait for shutdown to complete
	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("expected clean shutdown, got error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("shutdown timed out")
	}
}

func TestDefaultRootHandler(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"GET /v1/deployments": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	// Get the root handler
	handler := s.config.Handlers["/"]
	if handler == nil {
		t.Fatal("expected default root handler to be created")
	}

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// Check that response contains routes
	body := w.Body.String()
	if body == "" {
		t.Error("expected non-empty response body")
	}

	// Should contain the test route
	if !strings.Contains(body, "GET /v1/deployments") {
		t.Error("expected response to contain GET /v1/deployments route")
	}
}

func TestDefaultRootHandlerMethodNotAllowed(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()

	handler := s.config.Handlers["/"]
	handler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestCustomRootHandlerNotOverridden(t *testing.T) {
	customCalled := false
	routes := map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, _ *http.Request) {
			customCalled = true
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler := s.config.Handlers["/"]
	handler(w, req)

	if !customCalled {
		t.Error("expected custom root handler to be called, not default")
	}
}

func TestOptions(t *testing.T) {
	cfg := NewConfig()
	cfg.Port = 9090
	cfg.RateLimit = 500

	tests := []struct {
		name  string
		opts  []Option
		check func(*Server) bool
	}{
		{"default name", nil, func(s *Server) bool { return s.config.Name == "server" }},
		{"name", []Option{WithName("repodeployd")}, func(s *Server) bool { return s.config.Name == "repodeployd" }},
		{"version", []Option{WithVersion("1.2.3")}, func(s *Server) bool { return s.config.Version == "1.2.3" }},
		{"config", []Option{WithConfig(cfg)}, func(s *Server) bool { return s.config.Port == 9090 && s.config.RateLimit == 500 }},
		{"nil config keeps defaults", []Option{WithConfig(nil)}, func(s *Server) bool { return s.config != nil }},
		{"handlers merge", []Option{
			WithHandler(map[string]http.HandlerFunc{"POST /deploy": func(http.ResponseWriter, *http.Request) {}}),
			WithHandler(map[string]http.HandlerFunc{"GET /test": func(http.ResponseWriter, *http.Request) {}}),
		}, func(s *Server) bool {
			_, deploy := s.config.Handlers["POST /deploy"]
			_, test := s.config.Handlers["GET /test"]
			_, root := s.config.Handlers["/"]
			return deploy && test && root
		}},
		{"readiness check", []Option{WithReadinessCheck("store", func(context.Context) error { return nil })},
			func(s *Server) bool { return len(s.checks) == 1 && s.checks[0].name == "store" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(New(tt.opts...)) {
				t.Errorf("option %q not applied", tt.name)
			}
		})
	}
}

func TestRoutingThroughMux(t *testing.T) {
	var gotUser, gotRepo string
	routes := map[string]http.HandlerFunc{
		"POST /webhook/update/{username}/{deployedRepoName}": func(w http.ResponseWriter, r *http.Request) {
			gotUser = r.PathValue("username")
			gotRepo = r.PathValue("deployedRepoName")
			w.WriteHeader(http.StatusAccepted)
		},
	}
	s := New(WithHandler(routes))
	s.setReady(true)
	h := s.Handler()

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"path params", http.MethodPost, "/webhook/update/alice/alice-shop-deployed", http.StatusAccepted},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"ready", http.MethodGet, "/ready", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"index", http.MethodGet, "/", http.StatusOK},
		{"known path wrong method", http.MethodGet, "/webhook/update/alice/alice-shop-deployed", http.StatusMethodNotAllowed},
		{"system path wrong method", http.MethodPost, "/health", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, w.Code)
			}
		})
	}

	if gotUser != "alice" || gotRepo != "alice-shop-deployed" {
		t.Errorf("unexpected path values: %q %q", gotUser, gotRepo)
	}
}

func TestRoutesListedInIndex(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{
		"GET /test": func(w http.ResponseWriter, _ *http.Request) {},
	}))

	got := s.routes()
	want := []string{"GET /health", "GET /metrics", "GET /ready", "GET /test"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("routes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
