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
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/repodeploy/repodeploy/pkg/manifest"
	"github.com/repodeploy/repodeploy/pkg/serializer"
)

// ErrManifestDrift is returned by manifest --check when the file on disk
// differs from the rendered manifest.
var ErrManifestDrift = errors.New("manifest differs from rendered output")

func manifestCmd() *cli.Command {
	return &cli.Command{
		Name:  "manifest",
		Usage: "Render the Kubernetes Deployment and Service for an app",
		Description: `Render the two-document manifest pushed to deployment repositories.
The YAML is written to --output or stdout; --format does not apply.

With --check the file at --output is read instead of written. The command
fails when it is not a valid manifest or when it differs from the rendered one.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "app", Usage: "application name (DNS-1123 label)", Required: true},
			&cli.StringFlag{Name: "image", Usage: "container image reference", Required: true},
			&cli.IntFlag{Name: "port", Usage: "container port", Required: true},
			&cli.StringFlag{Name: "source", Usage: "source repository URL recorded on the pod template"},
			&cli.BoolFlag{Name: "check", Usage: "verify --output matches the rendered manifest"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rendered, err := manifest.Generate(manifest.Options{
				AppName: strings.TrimSpace(cmd.String("app")),
				Image:   strings.TrimSpace(cmd.String("image")),
				Port:    cmd.Int("port"),
				Source:  strings.TrimSpace(cmd.String("source")),
			})
			if err != nil {
				return err
			}

			path := strings.TrimSpace(cmd.String("output"))
			if cmd.Bool("check") {
				if path == "" {
					return errors.New("--check requires --output")
				}
				return checkManifest(path, rendered)
			}

			if path == "" {
				_, err := io.WriteString(cmd.Root().Writer, rendered)
				return err
			}
			if err := serializer.WriteToFile(path, []byte(rendered)); err != nil {
				return err
			}
			slog.Info("manifest written", "path", path)
			return nil
		},
	}
}

func checkManifest(path, rendered string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if _, err := manifest.Decode(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if string(data) != rendered {
		return fmt.Errorf("%s: %w", path, ErrManifestDrift)
	}
	slog.Info("manifest up to date", "path", path)
	return nil
}
