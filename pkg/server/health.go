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
	"log/slog"
	"net/http"
	"time"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	"github.com/repodeploy/repodeploy/pkg/serializer"
)

// Health states reported by /health and /ready.
const (
	StatusHealthy  = "healthy"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type namedCheck struct {
	name  string
	check ReadinessCheck
}

// WithReadinessCheck adds a dependency check run on every GET /ready.
// The server is only ready when all checks pass.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) {
		s.checks = append(s.checks, namedCheck{name: name, check: check})
	}
}

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string            `json:"status" yaml:"status"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Version   string            `json:"version,omitempty" yaml:"version,omitempty"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Reason    string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Checks    map[string]string `json:"checks,omitempty" yaml:"checks,omitempty"`
}

func (s *Server) newHealthResponse(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Name:      s.config.Name,
		Version:   s.config.Version,
		Timestamp: time.Now().UTC(),
	}
}

// handleHealth handles GET /health. It only reports that the process serves HTTP.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	serializer.RespondJSON(w, http.StatusOK, s.newHealthResponse(StatusHealthy))
}

// handleReady handles GET /ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		resp := s.newHealthResponse(StatusNotReady)
		resp.Reason = "service is initializing"
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp := s.newHealthResponse(StatusReady)
	if len(s.checks) == 0 {
		serializer.RespondJSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.ReadinessCheckTimeout)
	defer cancel()

	status := http.StatusOK
	resp.Checks = make(map[string]string, len(s.checks))
	for _, c := range s.checks {
		if err := c.check(ctx); err != nil {
			slog.Warn("readiness check failed", "check", c.name, "error", err)
			resp.Checks[c.name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.name] = "ok"
	}

	if status != http.StatusOK {
		resp.Status = StatusNotReady
		resp.Reason = "dependency check failed"
	}
	serializer.RespondJSON(w, status, resp)
}
