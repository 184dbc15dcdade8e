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

// Hosting provider defaults.
const (
	// GitHubAPIURL is the REST API base used when none is configured.
	GitHubAPIURL = "https://api.github.com"

	// GitHubWebURL is the browser root used when it cannot be derived from the API URL.
	GitHubWebURL = "https://github.com"

	// GitHubAPIVersion is sent as X-GitHub-Api-Version on every request.
	GitHubAPIVersion = "2022-11-28"

	// GitHubMediaType is sent as the Accept header on every request.
	GitHubMediaType = "application/vnd.github+json"

	// ImportWorkflowFile is the workflow in the template repository that
	// imports user code into a deployment repository.
	ImportWorkflowFile = "import_user_repo.yml"

	// WorkflowRef is the branch workflow dispatches run against.
	WorkflowRef = "main"
)

// Manifest defaults.
const (
	// ManifestPath is where the generated manifest is committed.
	ManifestPath = "k8s/deployment.yaml"

	// ManifestCommitMessage is the commit message for the manifest push.
	ManifestCommitMessage = "Add deployment manifest"

	// ImageRegistry prefixes derived container image references.
	ImageRegistry = "ghcr.io"

	// ServicePort is the port the generated LoadBalancer Service exposes.
	ServicePort = 80
)

// StoreDSN keeps the deployment registry in a process-local shared-cache
// in-memory SQLite database.
const StoreDSN = "file::memory:?cache=shared"
