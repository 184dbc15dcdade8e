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

// Package github is the version-control client repodeploy drives: it
// generates deployment repositories from a template, waits for them to
// become usable, dispatches the import workflow, commits files, and
// registers push webhooks on users' repositories.
//
// Every method performs authenticated REST calls against Config.BaseURL and
// takes a context. Non-2xx responses surface as *APIError (inspect with
// errors.As); polling timeouts wrap ErrTimeout; AsStructured maps any of
// these onto pkg/errors codes for the HTTP layer.
//
//	client := github.New(github.Config{
//	    Token:          token,
//	    Owner:          "deploybot",
//	    TemplateRepo:   "deploy-template",
//	    WebhookBaseURL: "https://deploy.example.com",
//	})
//	repo, err := client.CreateRepoFromTemplate(ctx, "shop", "Alice")
//	// repo == "alice-shop-deployed"
package github
