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

package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// WebhookStatus is the outcome of a webhook registration.
type WebhookStatus string

const (
	// WebhookCreated means the hook now exists on the user's repository.
	WebhookCreated WebhookStatus = "created"
	// WebhookSkipped means no registration was attempted; Reason says why.
	WebhookSkipped WebhookStatus = "skipped"
)

// WebhookResult describes what CreateWebhook did.
type WebhookResult struct {
	Status      WebhookStatus `json:"status" yaml:"status"`
	Reason      string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Owner       string        `json:"owner,omitempty" yaml:"owner,omitempty"`
	Repo        string        `json:"repo,omitempty" yaml:"repo,omitempty"`
	HookID      int64         `json:"hook_id,omitempty" yaml:"hook_id,omitempty"`
	CallbackURL string        `json:"callback_url,omitempty" yaml:"callback_url,omitempty"`
}

type hookConfig struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	InsecureSSL string `json:"insecure_ssl"`
	Secret      string `json:"secret,omitempty"`
}

type hookRequest struct {
	Name   string     `json:"name"`
	Active bool       `json:"active"`
	Events []string   `json:"events"`
	Config hookConfig `json:"config"`
}

// CallbackURL is the URL GitHub posts push events to for a deployment.
func (c *Client) CallbackURL(username, deployedRepoName string) string {
	return fmt.Sprintf("%s/webhook/update/%s/%s",
		c.cfg.WebhookBaseURL, url.PathEscape(username), url.PathEscape(deployedRepoName))
}

// CreateWebhook registers a push webhook on the user's repository that calls
// back into this service for deployedRepoName. When repoURL cannot be parsed
// no request is made and a skipped result is returned with a nil error.
func (c *Client) CreateWebhook(ctx context.Context, repoURL, username, deployedRepoName string) (*WebhookResult, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		slog.Warn("webhook registration skipped", "repoURL", repoURL, "error", err)
		return &WebhookResult{
			Status: WebhookSkipped,
			Reason: err.Error(),
		}, nil
	}

	callback := c.CallbackURL(username, deployedRepoName)
	path := fmt.Sprintf("/repos/%s/%s/hooks", url.PathEscape(owner), url.PathEscape(repo))

	var created struct {
		ID int64 `json:"id"`
	}
	if err := c.call(ctx, "create_hook", http.MethodPost, path, hookRequest{
		Name:   "web",
		Active: true,
		Events: []string{"push"},
		Config: hookConfig{
			URL:         callback,
			ContentType: "json",
			InsecureSSL: "0",
			Secret:      c.cfg.WebhookSecret,
		},
	}, &created); err != nil {
		return nil, fmt.Errorf("create webhook on %s/%s: %w", owner, repo, err)
	}

	slog.Info("webhook created", "owner", owner, "repo", repo, "hookID", created.ID, "callback", callback)
	return &WebhookResult{
		Status:      WebhookCreated,
		Owner:       owner,
		Repo:        repo,
		HookID:      created.ID,
		CallbackURL: callback,
	}, nil
}
