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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/repodeploy/repodeploy/pkg/logging"
	"github.com/repodeploy/repodeploy/pkg/serializer"
)

const (
	name           = "repodeploy"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the CLI with os.Args and exits non-zero on failure.
// It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Deploy user repositories through template-backed GitHub repositories",
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit JSON logs instead of text",
			},
			formatFlag,
			outputFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			initLogger(cmd)
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			deployCmd(),
			manifestCmd(),
			webhookCmd(),
			importCmd(),
			deploymentsCmd(),
			repoNameCmd(),
		},
	}
}

// initLogger configures slog after flags are parsed so overrides like
// --log-level take effect before any command executes.
func initLogger(cmd *cli.Command) {
	level := cmd.String("log-level")
	if cmd.Bool("debug") {
		level = "debug"
	}
	if cmd.Bool("log-json") {
		logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	} else {
		logging.SetDefaultTextLoggerWithLevel(name, version, level)
	}
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
}

// writeResult serializes v to --output in --format.
func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if c, ok := ser.(serializer.Closer); ok {
			if cerr := c.Close(); cerr != nil {
				slog.Warn("failed to close output", "error", cerr)
			}
		}
	}()

	if err := ser.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
