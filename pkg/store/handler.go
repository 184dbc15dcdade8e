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

package store

import (
	"context"
	"errors"
	"net/http"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"github.com/repodeploy/repodeploy/pkg/serializer"
	"github.com/repodeploy/repodeploy/pkg/server"
)

// ListResponse is the body of GET /v1/deployments.
type ListResponse struct {
	Deployments []*Deployment `json:"deployments"`
	Count       int           `json:"count"`
}

// Handler serves read access to the registry.
type Handler struct {
	store Store
}

// NewHandler returns a Handler reading from s.
func NewHandler(s Store) *Handler {
	return &Handler{store: s}
}

// HandleList serves GET /v1/deployments.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.RegistryHandlerTimeout)
	defer cancel()

	items, err := h.store.List(ctx)
	if err != nil {
		server.WriteErrorFromErr(w, r, rderrors.Wrap(rderrors.ErrCodeInternal, "Failed to list deployments", err),
			"Failed to list deployments", nil)
		return
	}
	if items == nil {
		items = []*Deployment{}
	}

	serializer.RespondJSON(w, http.StatusOK, ListResponse{
		Deployments: items,
		Count:       len(items),
	})
}

// HandleGet serves GET /v1/deployments/{repo}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.RegistryHandlerTimeout)
	defer cancel()

	repo := r.PathValue("repo")
	item, err := h.store.Get(ctx, repo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.WriteError(w, r, http.StatusNotFound, rderrors.ErrCodeNotFound,
				"Deployment not found", false, map[string]any{
					"repo": repo,
				})
			return
		}
		server.WriteErrorFromErr(w, r, rderrors.Wrap(rderrors.ErrCodeInternal, "Failed to get deployment", err),
			"Failed to get deployment", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, item)
}
