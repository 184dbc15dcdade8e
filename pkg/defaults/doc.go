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

// Package defaults provides centralized configuration constants for repodeploy.
//
// This package defines timeout values, polling parameters, and other configuration
// defaults used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Handler timeouts: For HTTP request processing
//   - Workflow polling: For waiting on freshly generated repositories
//   - Server timeouts: For HTTP server configuration
//   - HTTP client timeouts: For outbound hosting API requests
//   - Store timeouts: For deployment registry writes
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/repodeploy/repodeploy/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.DeployHandlerTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Deploy handler: 60s, enough for a 10s workflow wait plus five API calls
//   - Webhook handlers: 15s, a single dispatch call
//   - Server write timeout: larger than every handler timeout
//   - Server shutdown: 30s for graceful shutdown
package defaults
