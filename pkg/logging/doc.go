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

// Package logging configures log/slog for the repodeploy binaries.
//
// The server logs JSON to stderr; the CLI logs text unless --log-json is
// given. Every record carries the module (binary name) and version:
//
//	{"time":"...","level":"INFO","msg":"deployment created","module":"repodeployd","version":"v0.3.0","repo":"alice-shop-deployed"}
//
// Levels are parsed case-insensitively from debug, info, warn/warning and
// error; anything else means info. At debug level records include the source
// location. The server reads the level from log.level (LOG_LEVEL); the CLI
// takes --log-level or --debug.
//
//	logging.SetDefaultStructuredLoggerWithLevel("repodeployd", version, cfg.Log.Level)
//	logging.SetDefaultTextLoggerWithLevel("repodeploy", version, "debug")
//
// NewLogLogger bridges packages that want a *log.Logger, such as
// http.Server.ErrorLog, onto the default handler.
//
// # Attribute keys
//
// Packages log with slog key/value pairs and reuse these keys:
//
//	requestID   request ID from pkg/server middleware
//	delivery    X-GitHub-Delivery of a webhook request
//	repo        deployment repository name
//	username    user a deployment belongs to
//	step        orchestrator step (create_repo, wait_workflow, ...)
//	operation   GitHub API operation (create_repo, dispatch_workflow, ...)
//	component   sub-logger owner, e.g. "store" for gorm
//	error       the error value
package logging
