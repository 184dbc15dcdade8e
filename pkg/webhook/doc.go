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

// Package webhook receives push events from users' repositories and
// re-triggers the import workflow of the matching deployment repository.
//
// The callback URL registered on a user's repository embeds the deployment
// identity:
//
//	POST /webhook/update/{username}/{deployedRepoName}
//
// so no lookup is needed to route an event. Ping deliveries, payloads
// carrying a "hook" object, and pushes without a head commit (branch
// deletions, test deliveries) are acknowledged and ignored. Any other push
// dispatches the import workflow once with the repository's clone URL.
//
// When a webhook secret is configured every delivery must carry a valid
// X-Hub-Signature-256 header.
package webhook
