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
	"fmt"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"github.com/repodeploy/repodeploy/pkg/github"
)

// SupportedLanguages are the runtimes the template can build without a
// Dockerfile.
var SupportedLanguages = []string{"node", "python", "java", "ruby", "go"}

// Request is the body of POST /deploy.
type Request struct {
	Username      string `json:"username" yaml:"username"`
	UserRepoURL   string `json:"user_repo_url" yaml:"user_repo_url"`
	AppName       string `json:"app_name" yaml:"app_name"`
	Language      string `json:"language,omitempty" yaml:"language,omitempty"`
	HasDockerfile bool   `json:"has_dockerfile" yaml:"has_dockerfile"`
	Port          int    `json:"port" yaml:"port"`
}

// Validate reports every invalid field at once. The app name must be a
// DNS-1123 label since it names the Kubernetes objects; language is
// required unless the repository brings its own Dockerfile.
func (r *Request) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(r.Username) == "" {
		fields["username"] = "is required"
	}
	if strings.TrimSpace(r.UserRepoURL) == "" {
		fields["user_repo_url"] = "is required"
	}
	if r.AppName == "" {
		fields["app_name"] = "is required"
	} else if msgs := validation.IsDNS1123Label(r.AppName); len(msgs) > 0 {
		fields["app_name"] = strings.Join(msgs, "; ")
	}
	if msgs := validation.IsValidPortNum(r.Port); len(msgs) > 0 {
		fields["port"] = strings.Join(msgs, "; ")
	}
	switch {
	case r.Language == "" && !r.HasDockerfile:
		fields["language"] = "is required when has_dockerfile is false"
	case r.Language != "" && !slices.Contains(SupportedLanguages, r.Language):
		fields["language"] = fmt.Sprintf("must be one of %s", strings.Join(SupportedLanguages, ", "))
	}

	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+fields[name])
	}

	return rderrors.NewWithContext(rderrors.ErrCodeInvalidRequest,
		"invalid deploy request: "+strings.Join(parts, ", "),
		map[string]any{"fields": fields})
}

// Status values reported in Result.
const StatusSuccess = "success"

// Result is the body of a successful POST /deploy.
type Result struct {
	Status       string                `json:"status" yaml:"status"`
	RepoName     string                `json:"repo_name" yaml:"repo_name"`
	RepoURL      string                `json:"repo_url" yaml:"repo_url"`
	Webhook      *github.WebhookResult `json:"webhook,omitempty" yaml:"webhook,omitempty"`
	ManifestPath string                `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty"`
	Image        string                `json:"image,omitempty" yaml:"image,omitempty"`
}
