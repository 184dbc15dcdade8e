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

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/repodeploy/repodeploy/pkg/api"
	"github.com/repodeploy/repodeploy/pkg/config"
	"github.com/repodeploy/repodeploy/pkg/defaults"
	"github.com/repodeploy/repodeploy/pkg/deploy"
	"github.com/repodeploy/repodeploy/pkg/github"
	"github.com/repodeploy/repodeploy/pkg/serializer"
	"github.com/repodeploy/repodeploy/pkg/store"
	"github.com/repodeploy/repodeploy/pkg/webhook"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the API server",
		Description: `Serve the deploy, webhook and registry endpoints until interrupted.
Behaves like the repodeployd binary but takes its configuration from --config.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return api.Run(ctx, cfg, version)
		},
	}
}

func deployCmd() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Create a deployment repository for a user repository",
		Description: `Run the deployment sequence once: create the repository from the
template, wait for its import workflow, trigger the import, register the push
webhook and, when enabled, push the Kubernetes manifest.

The request can be read from a JSON or YAML file with the same field names as
POST /deploy; flags given on the command line override the file.

The result is written in --format to --output.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "deploy request file (.json, .yaml, or - for stdin)",
			},
			&cli.StringFlag{Name: "username", Usage: "user the deployment belongs to"},
			&cli.StringFlag{Name: "repo-url", Usage: "URL of the user's source repository"},
			&cli.StringFlag{Name: "app", Usage: "application name (DNS-1123 label)"},
			&cli.IntFlag{Name: "port", Usage: "port the application listens on"},
			&cli.StringFlag{Name: "language", Usage: "application language when there is no Dockerfile"},
			&cli.BoolFlag{Name: "has-dockerfile", Usage: "the source repository builds from its own Dockerfile"},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "overall time allowed for the deployment",
				Value: defaults.CLIDeployTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req, err := deployRequestFromCmd(cmd)
			if err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			app, err := api.NewApp(cfg)
			if err != nil {
				return err
			}
			defer closeApp(app)

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			res, err := app.Orchestrator.Deploy(ctx, req)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, res)
		},
	}
}

// deployRequestFromCmd builds a deploy request from --file, if any, with
// explicitly set flags taking precedence.
func deployRequestFromCmd(cmd *cli.Command) (*deploy.Request, error) {
	req := &deploy.Request{}
	if path := cmd.String("file"); path != "" {
		loaded, err := serializer.FromFile[deploy.Request](path)
		if err != nil {
			return nil, err
		}
		req = loaded
	}

	if cmd.IsSet("username") {
		req.Username = cmd.String("username")
	}
	if cmd.IsSet("repo-url") {
		req.UserRepoURL = cmd.String("repo-url")
	}
	if cmd.IsSet("app") {
		req.AppName = cmd.String("app")
	}
	if cmd.IsSet("port") {
		req.Port = cmd.Int("port")
	}
	if cmd.IsSet("language") {
		req.Language = cmd.String("language")
	}
	if cmd.IsSet("has-dockerfile") {
		req.HasDockerfile = cmd.Bool("has-dockerfile")
	}
	return req, nil
}

func webhookCmd() *cli.Command {
	return &cli.Command{
		Name:  "webhook",
		Usage: "Register the push webhook for an existing deployment",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "repo-url", Usage: "URL of the user's source repository", Required: true},
			&cli.StringFlag{Name: "username", Usage: "user the deployment belongs to", Required: true},
			&cli.StringFlag{Name: "app", Usage: "application name", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client := api.NewClient(cfg)
			rc := webhook.New(client)

			res, err := rc.Register(ctx, &webhook.CreateRequest{
				Username:    cmd.String("username"),
				UserRepoURL: cmd.String("repo-url"),
				AppName:     cmd.String("app"),
			})
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, res)
		},
	}
}

// importResult reports an import started by the import command.
type importResult struct {
	Repo   string `json:"repo" yaml:"repo"`
	Source string `json:"source" yaml:"source"`
	Status string `json:"status" yaml:"status"`
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a source repository into a deployment repository",
		Description: `Wait until the deployment repository exists and start a source import
of the user's repository into it. Useful to re-seed a deployment whose
import workflow cannot run.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "repo", Usage: "deployment repository name", Required: true},
			&cli.StringFlag{Name: "source", Usage: "URL of the source repository", Required: true},
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "how long to wait for the deployment repository",
				Value: defaults.WorkflowWaitTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client := api.NewClient(cfg)
			repo := cmd.String("repo")
			source := cmd.String("source")

			if _, err := client.WaitForRepo(ctx, repo, cmd.Duration("wait")); err != nil {
				return github.AsStructured(err, fmt.Sprintf("repository %s not available", repo))
			}
			if err := client.ImportUserRepo(ctx, repo, source); err != nil {
				return github.AsStructured(err, "failed to start import")
			}
			slog.Info("import started", "repo", repo, "source", source)

			return writeResult(ctx, cmd, &importResult{
				Repo:   client.RepoURL(repo),
				Source: source,
				Status: "import_started",
			})
		},
	}
}

func deploymentsCmd() *cli.Command {
	return &cli.Command{
		Name:  "deployments",
		Usage: "Show deployments recorded in the registry",
		Description: `Read the deployment registry configured by store.dsn. Only useful with a
file-backed DSN shared with a running server; the default in-memory registry
is private to its process.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "repo", Usage: "show a single deployment repository"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if cfg.Store.DSN == "" {
				return errors.New("deployment registry is disabled (store.dsn is empty)")
			}

			s, err := store.Open(cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := s.Close(); cerr != nil {
					slog.Warn("failed to close deployment store", "error", cerr)
				}
			}()

			if repo := cmd.String("repo"); repo != "" {
				d, err := s.Get(ctx, repo)
				if err != nil {
					return err
				}
				return writeResult(ctx, cmd, d)
			}

			items, err := s.List(ctx)
			if err != nil {
				return err
			}
			return writeResult(ctx, cmd, &store.ListResponse{Deployments: items, Count: len(items)})
		},
	}
}

// repoNameResult carries the derived deployment repository name.
type repoNameResult struct {
	RepoName string `json:"repo_name" yaml:"repo_name"`
}

func repoNameCmd() *cli.Command {
	return &cli.Command{
		Name:  "repo-name",
		Usage: "Print the deployment repository name for a user and app",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Usage: "user the deployment belongs to", Required: true},
			&cli.StringFlag{Name: "app", Usage: "application name", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return writeResult(ctx, cmd, &repoNameResult{
				RepoName: github.DeploymentRepoName(cmd.String("username"), cmd.String("app")),
			})
		},
	}
}

func closeApp(app *api.App) {
	if err := app.Close(); err != nil {
		slog.Warn("failed to close deployment store", "error", err)
	}
}
