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

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/time/rate"

	"github.com/repodeploy/repodeploy/pkg/config"
	"github.com/repodeploy/repodeploy/pkg/deploy"
	"github.com/repodeploy/repodeploy/pkg/github"
	"github.com/repodeploy/repodeploy/pkg/logging"
	"github.com/repodeploy/repodeploy/pkg/serializer"
	"github.com/repodeploy/repodeploy/pkg/server"
	"github.com/repodeploy/repodeploy/pkg/store"
	"github.com/repodeploy/repodeploy/pkg/webhook"
)

const (
	name           = "repodeployd"
	versionDefault = "dev"

	// ConfigEnv names an optional YAML or .env config file read by Serve.
	ConfigEnv = "REPODEPLOY_CONFIG"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/repodeploy/repodeploy/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve loads configuration from the environment, starts the API server and
// blocks until shutdown.
func Serve() error {
	cfg, err := config.Load(os.Getenv(ConfigEnv))
	if err != nil {
		return err
	}
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.Log.Level)
	return Run(context.Background(), cfg, version)
}

// Run serves the API for cfg until ctx is cancelled or the process is
// signalled.
func Run(ctx context.Context, cfg *config.Config, ver string) error {
	slog.Info("starting",
		"name", name,
		"version", ver,
		"commit", commit,
		"date", date,
	)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			slog.Warn("failed to close deployment store", "error", cerr)
		}
	}()

	if err := app.Server(ver).Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

// App holds the components behind the API routes.
type App struct {
	Config       *config.Config
	Client       *github.Client
	Store        *store.SQLStore // nil when the registry is disabled
	Orchestrator *deploy.Orchestrator
	Receiver     *webhook.Receiver
}

// NewApp builds every component from cfg. The caller owns Close.
func NewApp(cfg *config.Config, clientOpts ...github.Option) (*App, error) {
	client := NewClient(cfg, clientOpts...)

	app := &App{
		Config: cfg,
		Client: client,
	}

	deployOpts := []deploy.Option{
		deploy.WithWorkflowFile(cfg.Deploy.WorkflowFile),
		deploy.WithWaitTimeout(cfg.Deploy.WaitTimeout),
		deploy.WithManifest(cfg.Deploy.ManifestEnabled, cfg.Deploy.ManifestPath),
		deploy.WithImageRegistry(cfg.Deploy.ImageRegistry),
	}
	webhookOpts := []webhook.Option{
		webhook.WithSecret(cfg.Webhook.Secret),
		webhook.WithWorkflowFile(cfg.Deploy.WorkflowFile),
	}

	if cfg.Store.DSN != "" {
		st, err := store.Open(cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		app.Store = st
		deployOpts = append(deployOpts, deploy.WithStore(st))
		webhookOpts = append(webhookOpts, webhook.WithRecorder(st))
	}

	app.Orchestrator = deploy.New(client, deployOpts...)
	app.Receiver = webhook.New(client, webhookOpts...)
	return app, nil
}

// NewClient builds the hosting provider client for cfg.
func NewClient(cfg *config.Config, opts ...github.Option) *github.Client {
	return github.New(github.Config{
		BaseURL:              cfg.GitHub.APIURL,
		WebURL:               cfg.GitHub.WebURL,
		Token:                cfg.GitHub.Token,
		Owner:                cfg.GitHub.Username,
		TemplateRepo:         cfg.GitHub.TemplateRepo,
		WebhookBaseURL:       cfg.Webhook.URL,
		WebhookSecret:        cfg.Webhook.Secret,
		WorkflowPollInterval: cfg.Deploy.PollInterval,
	}, opts...)
}

// Routes returns the application routes keyed by ServeMux pattern.
func (a *App) Routes() map[string]http.HandlerFunc {
	routes := map[string]http.HandlerFunc{
		"POST /deploy":         a.Orchestrator.HandleDeploy,
		"POST /webhook/create": a.Receiver.HandleCreate,
		"POST /webhook/update/{username}/{deployedRepoName}": a.Receiver.HandleUpdate,
		"GET /test": handleTest,
	}
	if a.Store != nil {
		h := store.NewHandler(a.Store)
		routes["GET /v1/deployments"] = h.HandleList
		routes["GET /v1/deployments/{repo}"] = h.HandleGet
	}
	return routes
}

// Server returns the HTTP server for the app.
func (a *App) Server(ver string) *server.Server {
	cfg := server.NewConfig()
	cfg.Port = a.Config.Server.Port
	if a.Config.Server.RateLimit > 0 {
		cfg.RateLimit = rate.Limit(a.Config.Server.RateLimit)
	}
	if a.Config.Server.RateLimitBurst > 0 {
		cfg.RateLimitBurst = a.Config.Server.RateLimitBurst
	}

	opts := []server.Option{
		server.WithConfig(cfg),
		server.WithName(name),
		server.WithVersion(ver),
		server.WithHandler(a.Routes()),
	}
	if a.Store != nil {
		opts = append(opts, server.WithReadinessCheck("store", a.Store.Ping))
	}
	return server.New(opts...)
}

// Close releases the deployment store, if any.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

type testResponse struct {
	Message string `json:"message"`
}

func handleTest(w http.ResponseWriter, _ *http.Request) {
	serializer.RespondJSON(w, http.StatusOK, testResponse{Message: "Test endpoint is working"})
}
