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

package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"github.com/repodeploy/repodeploy/pkg/serializer"
	"github.com/repodeploy/repodeploy/pkg/server"
)

// EventHeader names the delivery's event type.
const EventHeader = server.EventHeader

// HandleCreate serves POST /webhook/create.
func (rc *Receiver) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := serializer.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, r, http.StatusBadRequest, rderrors.ErrCodeInvalidJSON,
			"Invalid request body", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.WebhookHandlerTimeout)
	defer cancel()

	res, err := rc.Register(ctx, &req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to create webhook", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, res)
}

// HandleUpdate serves POST /webhook/update/{username}/{deployedRepoName}.
func (rc *Receiver) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	repoName := r.PathValue("deployedRepoName")

	body, err := serializer.ReadBody(r, serializer.MaxPushPayloadBytes)
	if errors.Is(err, serializer.ErrBodyTooLarge) {
		webhookEvents.WithLabelValues("rejected").Inc()
		server.WriteError(w, r, http.StatusRequestEntityTooLarge, rderrors.ErrCodeInvalidRequest,
			"Payload too large", false, map[string]any{
				"error": err.Error(),
			})
		return
	}
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, rderrors.ErrCodeInvalidRequest,
			"Failed to read request body", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	if rc.secret != "" {
		if err := VerifySignature(rc.secret, body, r.Header.Get(SignatureHeader)); err != nil {
			webhookEvents.WithLabelValues("unauthorized").Inc()
			slog.Warn("rejected webhook delivery",
				"username", username,
				"repo", repoName,
				"delivery", server.DeliveryIDFrom(r.Context()),
				"error", err)
			server.WriteError(w, r, http.StatusUnauthorized, rderrors.ErrCodeUnauthorized,
				"Invalid webhook signature", false, nil)
			return
		}
	}

	if r.Header.Get(EventHeader) == "ping" {
		webhookEvents.WithLabelValues("ignored").Inc()
		serializer.RespondJSON(w, http.StatusOK, PushResult{Status: StatusIgnored})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.WebhookHandlerTimeout)
	defer cancel()

	res, err := rc.HandlePush(ctx, username, repoName, body)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to handle push event", map[string]any{
			"username": username,
			"repo":     repoName,
		})
		return
	}

	serializer.RespondJSON(w, http.StatusOK, res)
}
