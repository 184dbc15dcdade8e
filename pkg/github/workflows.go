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
	"time"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"
)

// WaitForWorkflow polls the workflow definition in repoName until it is
// reachable or timeout elapses. Freshly generated repositories take a few
// seconds before their workflows can be dispatched. The first probe is
// immediate. On timeout the error wraps ErrTimeout and carries code TIMEOUT.
func (c *Client) WaitForWorkflow(ctx context.Context, repoName, workflowFile string, timeout time.Duration) (bool, error) {
	path := fmt.Sprintf("/repos/%s/%s/actions/workflows/%s",
		url.PathEscape(c.cfg.Owner), url.PathEscape(repoName), url.PathEscape(workflowFile))
	return c.waitFor(ctx, "get_workflow", "workflow", path, timeout)
}

// waitFor probes path until it answers 200. Other statuses and transport
// errors count as "not ready yet".
func (c *Client) waitFor(ctx context.Context, op, target, path string, timeout time.Duration) (bool, error) {
	attempts := 0
	err := wait.PollUntilContextTimeout(ctx, c.cfg.WorkflowPollInterval, timeout, true,
		func(ctx context.Context) (bool, error) {
			attempts++
			status, _, err := c.send(ctx, op, http.MethodGet, path, nil)
			if err != nil {
				waitPolls.WithLabelValues(target, "error").Inc()
				slog.Debug("availability probe failed", "target", target, "path", path, "attempt", attempts, "error", err)
				return false, nil
			}
			if status != http.StatusOK {
				waitPolls.WithLabelValues(target, "pending").Inc()
				slog.Debug("not available yet", "target", target, "path", path, "attempt", attempts, "status", status)
				return false, nil
			}
			waitPolls.WithLabelValues(target, "ready").Inc()
			return true, nil
		})
	if err == nil {
		slog.Debug("available", "target", target, "path", path, "attempts", attempts)
		return true, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, fmt.Errorf("waiting for %s %s: %w", target, path, ctxErr)
	}

	slog.Warn("gave up waiting", "target", target, "path", path, "timeout", timeout, "attempts", attempts)
	return false, rderrors.WrapWithContext(rderrors.ErrCodeTimeout,
		fmt.Sprintf("%s not available after %s", target, timeout), ErrTimeout,
		map[string]any{
			"path":     path,
			"attempts": attempts,
		})
}

type dispatchRequest struct {
	Ref    string            `json:"ref"`
	Inputs map[string]string `json:"inputs"`
}

// TriggerImportWorkflow dispatches workflowFile in repoName with the user's
// repository URL as input. Only 204 No Content counts as success.
func (c *Client) TriggerImportWorkflow(ctx context.Context, repoName, sourceRepoURL, workflowFile string) error {
	path := fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/dispatches",
		url.PathEscape(c.cfg.Owner), url.PathEscape(repoName), url.PathEscape(workflowFile))

	status, body, err := c.send(ctx, "dispatch_workflow", http.MethodPost, path, dispatchRequest{
		Ref: defaults.WorkflowRef,
		Inputs: map[string]string{
			"user_repo_url": sourceRepoURL,
		},
	})
	if err != nil {
		return fmt.Errorf("dispatch %s in %s: %w", workflowFile, repoName, err)
	}
	if status != http.StatusNoContent {
		apiErr := newAPIError(http.MethodPost, path, status, body)
		slog.Error("workflow dispatch failed",
			"repo", repoName,
			"workflow", workflowFile,
			"status", status,
			"detail", apiErr.Body,
		)
		return fmt.Errorf("dispatch %s in %s: %w", workflowFile, repoName, apiErr)
	}

	slog.Info("import workflow triggered", "repo", repoName, "workflow", workflowFile, "source", sourceRepoURL)
	return nil
}
