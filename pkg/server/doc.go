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

// Package server provides the HTTP server shared by the repodeploy API.
//
// # Architecture
//
// Routes are registered as ServeMux patterns ("POST /deploy",
// "POST /webhook/update/{username}/{deployedRepoName}") and every route goes
// through the same middleware chain:
//
//   - Prometheus request metrics labelled by matched pattern
//   - API version negotiation (X-API-Version)
//   - Request ID tracking (X-Request-Id, else the X-GitHub-Delivery GUID)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Request logging
//
// System endpoints bypass the chain: GET /health, GET /ready and GET /metrics.
// A route index is served on GET / unless a handler for "/" is supplied. A
// known path requested with the wrong method gets 405 with an Allow header.
//
// /ready reports 503 until the listener is up and, afterwards, whenever a
// check added with WithReadinessCheck fails:
//
//	server.WithReadinessCheck("store", registry.Ping)
//
// # Usage
//
//	s := server.New(
//	    server.WithName("repodeployd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "POST /deploy": orchestrator.HandleDeploy,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run blocks until SIGINT, SIGTERM or context cancellation and then drains
// in-flight requests for up to ShutdownTimeout.
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFromErr. The latter
// derives the HTTP status and retryable flag from the pkg/errors code:
//
//	{
//	  "code": "UPSTREAM_ERROR",
//	  "message": "Deployment failed",
//	  "detail": "[UPSTREAM_ERROR] ...",
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2026-01-02T15:04:05Z",
//	  "retryable": true
//	}
//
// # Configuration
//
// NewConfig reads PORT and SHUTDOWN_TIMEOUT_SECONDS from the environment.
// Rate limit headers X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset are set on every rate-limited route; a rejected request
// gets 429 with Retry-After.
package server
