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

package defaults

import "time"

// Handler timeouts for HTTP request processing.
const (
	// DeployHandlerTimeout is the timeout for a full deploy request.
	// Covers repo creation, the workflow wait window and the remaining API calls.
	DeployHandlerTimeout = 60 * time.Second

	// WebhookHandlerTimeout is the timeout for webhook create/update requests.
	WebhookHandlerTimeout = 15 * time.Second

	// RegistryHandlerTimeout is the timeout for deployment registry lookups.
	RegistryHandlerTimeout = 5 * time.Second
)

// Workflow polling for freshly generated repositories.
const (
	// WorkflowWaitTimeout is the window during which the import workflow
	// of a new repository must become reachable.
	WorkflowWaitTimeout = 10 * time.Second

	// WorkflowPollInterval is the fixed delay between availability probes.
	WorkflowPollInterval = 1 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Must exceed DeployHandlerTimeout so deploy errors still reach the client.
	ServerWriteTimeout = 90 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// Store timeouts for the deployment registry.
const (
	// StoreWriteTimeout bounds best-effort registry writes made after
	// the request context may already be done.
	StoreWriteTimeout = 5 * time.Second

	// ReadinessCheckTimeout bounds all dependency checks behind GET /ready.
	ReadinessCheckTimeout = 2 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIDeployTimeout is the default timeout for the deploy command.
	CLIDeployTimeout = 2 * time.Minute
)
