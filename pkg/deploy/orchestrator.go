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
	"fmt"
	"log/slog"
	"time"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"github.com/repodeploy/repodeploy/pkg/github"
	"github.com/repodeploy/repodeploy/pkg/manifest"
	"github.com/repodeploy/repodeploy/pkg/store"
)

// RepoService is the subset of the hosting provider client a deploy needs.
type RepoService interface {
	Owner() string
	RepoURL(repoName string) string
	CreateRepoFromTemplate(ctx context.Context, appName, username string) (string, error)
	WaitForWorkflow(ctx context.Context, repoName, workflowFile string, timeout time.Duration) (bool, error)
	TriggerImportWorkflow(ctx context.Context, repoName, sourceRepoURL, workflowFile string) error
	CreateWebhook(ctx context.Context, repoURL, username, deployedRepoName string) (*github.WebhookResult, error)
	PushFileToRepo(ctx context.Context, repoName, filePath, content, message string) error
}

var _ RepoService = (*github.Client)(nil)

// Store records deploy outcomes.
type Store interface {
	Save(ctx context.Context, d *store.Deployment) error
	SetStatus(ctx context.Context, repoName string, status store.Status) error
}

const (
	stepValidate = "validate"
	stepCreate   = "create_repo"
	stepWait     = "wait_workflow"
	stepTrigger  = "trigger_import"
	stepWebhook  = "create_webhook"
	stepManifest = "push_manifest"
)

// Orchestrator runs deploys against a RepoService.
type Orchestrator struct {
	repos           RepoService
	store           Store
	workflowFile    string
	waitTimeout     time.Duration
	manifestEnabled bool
	manifestPath    string
	imageRegistry   string
}

// Option is a functional option for configuring Orchestrator instances.
type Option func(*Orchestrator)

// WithStore records every deploy in s. Without a store nothing is recorded.
func WithStore(s Store) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithWorkflowFile sets the import workflow file name.
func WithWorkflowFile(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.workflowFile = name
		}
	}
}

// WithWaitTimeout bounds how long a deploy waits for the import workflow.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.waitTimeout = d
		}
	}
}

// WithManifest enables or disables the manifest commit and sets its path.
func WithManifest(enabled bool, path string) Option {
	return func(o *Orchestrator) {
		o.manifestEnabled = enabled
		if path != "" {
			o.manifestPath = path
		}
	}
}

// WithImageRegistry sets the registry prefix of derived image references.
func WithImageRegistry(registry string) Option {
	return func(o *Orchestrator) {
		if registry != "" {
			o.imageRegistry = registry
		}
	}
}

// New returns an Orchestrator using repos for all provider calls.
func New(repos RepoService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		repos:           repos,
		workflowFile:    defaults.ImportWorkflowFile,
		waitTimeout:     defaults.WorkflowWaitTimeout,
		manifestEnabled: true,
		manifestPath:    defaults.ManifestPath,
		imageRegistry:   defaults.ImageRegistry,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Deploy runs the deploy sequence for req. The first failing step aborts the
// rest; its error carries a structured code and names the step.
func (o *Orchestrator) Deploy(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		deploysTotal.WithLabelValues("failure", stepValidate).Inc()
		return nil, err
	}

	log := slog.With("username", req.Username, "app", req.AppName)
	log.Info("deploy started", "source", req.UserRepoURL)

	var repoName string
	err := o.step(ctx, stepCreate, func(ctx context.Context) error {
		name, err := o.repos.CreateRepoFromTemplate(ctx, req.AppName, req.Username)
		repoName = name
		return err
	})
	if err != nil {
		return nil, o.fail(ctx, log, stepCreate, "", err)
	}
	log = log.With("repo", repoName)
	o.record(ctx, log, newRecord(req, repoName, store.StatusCreated, ""))

	err = o.step(ctx, stepWait, func(ctx context.Context) error {
		ok, err := o.repos.WaitForWorkflow(ctx, repoName, o.workflowFile, o.waitTimeout)
		if err != nil {
			return err
		}
		if !ok {
			return rderrors.NewWithContext(rderrors.ErrCodeTimeout,
				fmt.Sprintf("workflow %s not available after %s", o.workflowFile, o.waitTimeout),
				map[string]any{"repo": repoName})
		}
		return nil
	})
	if err != nil {
		return nil, o.fail(ctx, log, stepWait, repoName, err)
	}

	err = o.step(ctx, stepTrigger, func(ctx context.Context) error {
		return o.repos.TriggerImportWorkflow(ctx, repoName, req.UserRepoURL, o.workflowFile)
	})
	if err != nil {
		return nil, o.fail(ctx, log, stepTrigger, repoName, err)
	}

	var hook *github.WebhookResult
	err = o.step(ctx, stepWebhook, func(ctx context.Context) error {
		res, err := o.repos.CreateWebhook(ctx, req.UserRepoURL, req.Username, repoName)
		hook = res
		return err
	})
	if err != nil {
		return nil, o.fail(ctx, log, stepWebhook, repoName, err)
	}
	if hook != nil && hook.Status == github.WebhookSkipped {
		log.Warn("webhook registration skipped", "reason", hook.Reason)
	}

	result := &Result{
		Status:   StatusSuccess,
		RepoName: repoName,
		RepoURL:  o.repos.RepoURL(repoName),
		Webhook:  hook,
	}

	if o.manifestEnabled {
		image := manifest.ImageRef(o.imageRegistry, o.repos.Owner(), repoName)
		err = o.step(ctx, stepManifest, func(ctx context.Context) error {
			content, err := manifest.Generate(manifest.Options{
				AppName: req.AppName,
				Image:   image,
				Port:    req.Port,
				Source:  req.UserRepoURL,
			})
			if err != nil {
				return err
			}
			return o.repos.PushFileToRepo(ctx, repoName, o.manifestPath, content, defaults.ManifestCommitMessage)
		})
		if err != nil {
			return nil, o.fail(ctx, log, stepManifest, repoName, err)
		}
		result.ManifestPath = o.manifestPath
		result.Image = image
	}

	webhookStatus := ""
	if hook != nil {
		webhookStatus = string(hook.Status)
	}
	o.record(ctx, log, newRecord(req, repoName, store.StatusImportTriggered, webhookStatus))

	deploysTotal.WithLabelValues("success", "").Inc()
	log.Info("deploy completed", "url", result.RepoURL, "duration", time.Since(start))
	return result, nil
}

func (o *Orchestrator) step(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	defer func() {
		deployStepDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()
	slog.Debug("deploy step", "step", name)
	return fn(ctx)
}

// fail records the failure and returns err annotated with its step.
func (o *Orchestrator) fail(ctx context.Context, log *slog.Logger, step, repoName string, err error) error {
	deploysTotal.WithLabelValues("failure", step).Inc()
	log.Error("deploy failed", "step", step, "error", err)

	if repoName != "" && o.store != nil {
		sctx, cancel := storeContext(ctx)
		defer cancel()
		if serr := o.store.SetStatus(sctx, repoName, store.StatusFailed); serr != nil {
			log.Warn("failed to record deploy failure", "error", serr)
		}
	}

	return fmt.Errorf("%s: %w", step, github.AsStructured(err, "deploy step "+step+" failed"))
}

// record saves d when a store is configured. Failures are logged only.
func (o *Orchestrator) record(ctx context.Context, log *slog.Logger, d *store.Deployment) {
	if o.store == nil {
		return
	}
	sctx, cancel := storeContext(ctx)
	defer cancel()
	if err := o.store.Save(sctx, d); err != nil {
		log.Warn("failed to record deployment", "status", d.Status, "error", err)
	}
}

// storeContext detaches registry writes from request cancellation.
func storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), defaults.StoreWriteTimeout)
}

func newRecord(req *Request, repoName string, status store.Status, webhookStatus string) *store.Deployment {
	return &store.Deployment{
		RepoName:      repoName,
		Username:      req.Username,
		AppName:       req.AppName,
		SourceRepoURL: req.UserRepoURL,
		Language:      req.Language,
		HasDockerfile: req.HasDockerfile,
		Port:          req.Port,
		Status:        status,
		WebhookStatus: webhookStatus,
	}
}
