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

// Package api wires the repodeploy HTTP API.
//
// It builds the hosting provider client, the optional deployment registry,
// the orchestrator and the webhook receiver from one config.Config, and
// registers their handlers on the reusable pkg/server.
//
// # Endpoints
//
// Application endpoints (rate limited):
//   - POST /deploy                                          - create a deployment repository
//   - POST /webhook/create                                  - register the push webhook for a deployment
//   - POST /webhook/update/{username}/{deployedRepoName}    - push delivery callback
//   - GET  /test                                            - liveness message
//   - GET  /v1/deployments                                  - list recorded deployments
//   - GET  /v1/deployments/{repo}                           - one recorded deployment
//   - GET  /                                                - route index
//
// System endpoints (no rate limiting):
//   - GET /health, GET /ready, GET /metrics
//
// # Configuration
//
// Settings come from config.Load: GITHUB_TOKEN, GITHUB_USERNAME,
// TEMPLATE_REPO and WEBHOOK_URL are required; REPODEPLOY_CONFIG may point to
// a YAML or .env file.
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/repodeploy/repodeploy/pkg/api.version=1.0.0'"
package api
