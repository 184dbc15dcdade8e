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

// Package cli implements the repodeploy command-line interface.
//
// The CLI drives the same components as the API server without going
// through HTTP. It is meant for operators bootstrapping a deployment by hand,
// checking a rendered manifest in CI, or running the server itself.
//
// # Commands
//
// serve - Run the API server:
//
//	repodeploy serve [--config repodeploy.yaml]
//
// deploy - Create a deployment repository once:
//
//	repodeploy deploy --username alice --repo-url https://github.com/alice/app --app app --port 8080 --language node
//
// manifest - Render the Deployment and Service for an app:
//
//	repodeploy manifest --app app --image ghcr.io/acme/app:latest --port 8080 [--output k8s/app.yaml] [--check]
//
// With --check the file at --output is compared with the rendered manifest
// and the command fails when they differ.
//
// webhook - Register the push webhook for an existing deployment:
//
//	repodeploy webhook --repo-url https://github.com/alice/app --username alice --app app
//
// import - Import a source repository into a deployment repository:
//
//	repodeploy import --repo alice-app-deployed --source https://github.com/alice/app
//
// repo-name - Print the deployment repository name:
//
//	repodeploy repo-name --username alice --app app
//
// # Global Flags
//
//	--config, -c      YAML or .env config file (env: REPODEPLOY_CONFIG)
//	--log-level       debug, info, warn, error (default: info)
//	--debug           shorthand for --log-level debug
//	--log-json        JSON logs instead of text
//	--format, -t      result format: json, yaml, table (default: yaml)
//	--output, -o      result file (default: stdout)
//
// Configuration follows pkg/config: GITHUB_TOKEN, GITHUB_USERNAME,
// TEMPLATE_REPO and WEBHOOK_URL are required by the commands that call the
// hosting provider. manifest and repo-name need no configuration.
package cli
