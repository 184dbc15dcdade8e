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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"github.com/repodeploy/repodeploy/pkg/github"
	"github.com/repodeploy/repodeploy/pkg/store"
)

// Push outcomes reported in PushResult.Status.
const (
	StatusIgnored   = "Ignored test event"
	StatusTriggered = "Workflow triggered"
)

// ErrMissingCloneURL is returned for a push payload without
// repository.clone_url.
var ErrMissingCloneURL = errors.New("payload has no repository.clone_url")

// RepoService is the subset of the hosting provider client the receiver needs.
type RepoService interface {
	TriggerImportWorkflow(ctx context.Context, repoName, sourceRepoURL, workflowFile string) error
	CreateWebhook(ctx context.Context, repoURL, username, deployedRepoName string) (*github.WebhookResult, error)
}

var _ RepoService = (*github.Client)(nil)

// Recorder notes re-triggered imports.
type Recorder interface {
	MarkTriggered(ctx context.Context, repoName, sourceURL string) error
}

// PushResult is the acknowledgment returned for a push delivery.
type PushResult struct {
	Status     string `json:"status"`
	AppUser    string `json:"app_user,omitempty"`
	SourceRepo string `json:"source_repo,omitempty"`
	TargetRepo string `json:"target_repo,omitempty"`
}

// Receiver handles webhook registration and push deliveries.
type Receiver struct {
	repos        RepoService
	recorder     Recorder
	secret       string
	workflowFile string
}

// Option is a functional option for configuring Receiver instances.
type Option func(*Receiver)

// WithSecret requires deliveries to be signed with secret.
func WithSecret(secret string) Option {
	return func(r *Receiver) {
		r.secret = secret
	}
}

// WithRecorder records every triggered import.
func WithRecorder(rec Recorder) Option {
	return func(r *Receiver) {
		r.recorder = rec
	}
}

// WithWorkflowFile sets the import workflow file name.
func WithWorkflowFile(name string) Option {
	return func(r *Receiver) {
		if name != "" {
			r.workflowFile = name
		}
	}
}

// New returns a Receiver using repos for provider calls.
func New(repos RepoService, opts ...Option) *Receiver {
	r := &Receiver{
		repos:        repos,
		workflowFile: defaults.ImportWorkflowFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type pushRepository struct {
	CloneURL string `json:"clone_url"`
}

// HandlePush decides what a push delivery for deployedRepoName means and
// acts on it. Ignored deliveries make no provider call; any other push
// dispatches the import workflow exactly once.
func (rc *Receiver) HandlePush(ctx context.Context, username, deployedRepoName string, payload []byte) (*PushResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		webhookEvents.WithLabelValues("rejected").Inc()
		return nil, rderrors.Wrap(rderrors.ErrCodeInvalidJSON, "invalid push payload", err)
	}

	if ignored(fields) {
		webhookEvents.WithLabelValues("ignored").Inc()
		slog.Info("ignoring webhook test or empty push", "username", username, "repo", deployedRepoName)
		return &PushResult{Status: StatusIgnored}, nil
	}

	var repo pushRepository
	if raw, ok := fields["repository"]; ok {
		if err := json.Unmarshal(raw, &repo); err != nil {
			webhookEvents.WithLabelValues("rejected").Inc()
			return nil, rderrors.Wrap(rderrors.ErrCodeInvalidRequest, "invalid repository in push payload", err)
		}
	}
	cloneURL := strings.TrimSpace(repo.CloneURL)
	if cloneURL == "" {
		webhookEvents.WithLabelValues("rejected").Inc()
		return nil, rderrors.Wrap(rderrors.ErrCodeInvalidRequest, "push payload is missing the clone URL", ErrMissingCloneURL)
	}

	slog.Info("update event received", "username", username, "source", cloneURL, "target", deployedRepoName)

	if err := rc.repos.TriggerImportWorkflow(ctx, deployedRepoName, cloneURL, rc.workflowFile); err != nil {
		webhookEvents.WithLabelValues("failed").Inc()
		return nil, github.AsStructured(err, fmt.Sprintf("failed to trigger import for %s", deployedRepoName))
	}
	webhookEvents.WithLabelValues("triggered").Inc()

	rc.markTriggered(ctx, deployedRepoName, cloneURL)

	return &PushResult{
		Status:     StatusTriggered,
		AppUser:    username,
		SourceRepo: cloneURL,
		TargetRepo: deployedRepoName,
	}, nil
}

// ignored reports test deliveries and pushes without a head commit.
func ignored(fields map[string]json.RawMessage) bool {
	if _, ok := fields["hook"]; ok {
		return true
	}
	head, ok := fields["head_commit"]
	return !ok || bytes.Equal(bytes.TrimSpace(head), []byte("null"))
}

func (rc *Receiver) markTriggered(ctx context.Context, repoName, sourceURL string) {
	if rc.recorder == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaults.StoreWriteTimeout)
	defer cancel()

	if err := rc.recorder.MarkTriggered(sctx, repoName, sourceURL); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Debug("no deployment record for triggered repo", "repo", repoName)
			return
		}
		slog.Warn("failed to record import trigger", "repo", repoName, "error", err)
	}
}

// CreateRequest is the body of POST /webhook/create. It shares field names
// with the deploy request, so a deploy body can be reused as is.
type CreateRequest struct {
	Username    string `json:"username"`
	UserRepoURL string `json:"user_repo_url"`
	AppName     string `json:"app_name"`
}

// Validate checks the fields needed to derive the callback URL.
func (c *CreateRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(c.UserRepoURL) == "" {
		missing = append(missing, "user_repo_url")
	}
	if strings.TrimSpace(c.AppName) == "" {
		missing = append(missing, "app_name")
	}
	if len(missing) > 0 {
		return rderrors.NewWithContext(rderrors.ErrCodeInvalidRequest,
			"missing required fields: "+strings.Join(missing, ", "),
			map[string]any{"fields": missing})
	}
	return nil
}

// Register creates the push webhook for the deployment of req.
func (rc *Receiver) Register(ctx context.Context, req *CreateRequest) (*github.WebhookResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	repoName := github.DeploymentRepoName(req.Username, req.AppName)
	res, err := rc.repos.CreateWebhook(ctx, req.UserRepoURL, req.Username, repoName)
	if err != nil {
		return nil, github.AsStructured(err, "failed to create webhook")
	}
	return res, nil
}
