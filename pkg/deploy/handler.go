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

package deploy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"github.com/repodeploy/repodeploy/pkg/serializer"
	"github.com/repodeploy/repodeploy/pkg/server"
)

// HandleDeploy serves POST /deploy.
//
// Malformed JSON and invalid fields are rejected with 400. Any failure of the
// deploy sequence itself is reported as 500; the body keeps the structured
// code and retryable flag of the failing step, and detail holds the error
// text.
//
// Example:
//
//	POST /deploy
//	Content-Type: application/json
//	Body: {"username":"alice","user_repo_url":"https://github.com/alice/shop","app_name":"shop","language":"node","has_dockerfile":false,"port":8080}
func (o *Orchestrator) HandleDeploy(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := serializer.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, r, http.StatusBadRequest, rderrors.ErrCodeInvalidJSON,
			"Invalid request body", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	if err := req.Validate(); err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid deploy request", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.DeployHandlerTimeout)
	defer cancel()

	result, err := o.Deploy(ctx, &req)
	if err != nil {
		server.WriteErrorFromErrWithStatus(w, r, http.StatusInternalServerError, err, "Deployment failed", nil)
		return
	}

	slog.Debug("deploy response", "repo", result.RepoName)
	serializer.RespondJSON(w, http.StatusOK, result)
}
