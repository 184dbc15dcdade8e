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
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type generateRequest struct {
	Owner              string `json:"owner"`
	Name               string `json:"name"`
	IncludeAllBranches bool   `json:"include_all_branches"`
	Private            bool   `json:"private"`
}

type repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
}

// CreateRepoFromTemplate generates the deployment repository for username's
// app from the configured template and returns the deployment repository
// name. A 422 (typically the name already exists) is logged and returned as
// an *APIError like any other failure.
func (c *Client) CreateRepoFromTemplate(ctx context.Context, appName, username string) (string, error) {
	name := DeploymentRepoName(username, appName)
	path := fmt.Sprintf("/repos/%s/%s/generate", url.PathEscape(c.cfg.Owner), url.PathEscape(c.cfg.TemplateRepo))

	var repo repository
	err := c.call(ctx, "create_repo", http.MethodPost, path, generateRequest{
		Owner:              c.cfg.Owner,
		Name:               name,
		IncludeAllBranches: false,
		Private:            false,
	}, &repo)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsConflict() {
			slog.Warn("template generation rejected",
				"repo", name,
				"template", c.cfg.TemplateRepo,
				"detail", apiErr.Body,
			)
		}
		return "", fmt.Errorf("create repository %s from template %s: %w", name, c.cfg.TemplateRepo, err)
	}

	slog.Info("deployment repository created", "repo", name, "url", repo.HTMLURL)
	return name, nil
}

// RepoURL is the browser URL of a repository owned by the configured account.
func (c *Client) RepoURL(repoName string) string {
	return fmt.Sprintf("%s/%s/%s", c.cfg.WebURL, c.cfg.Owner, repoName)
}

// WaitForRepo polls until the repository is readable or timeout elapses.
func (c *Client) WaitForRepo(ctx context.Context, repoName string, timeout time.Duration) (bool, error) {
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(c.cfg.Owner), url.PathEscape(repoName))
	return c.waitFor(ctx, "get_repo", "repo", path, timeout)
}

type importRequest struct {
	VCS    string `json:"vcs"`
	VCSURL string `json:"vcs_url"`
}

// ImportUserRepo starts a source import of sourceRepoURL into targetRepo.
func (c *Client) ImportUserRepo(ctx context.Context, targetRepo, sourceRepoURL string) error {
	path := fmt.Sprintf("/repos/%s/%s/import", url.PathEscape(c.cfg.Owner), url.PathEscape(targetRepo))

	slog.Info("starting source import", "source", sourceRepoURL, "target", targetRepo)
	if err := c.call(ctx, "import_repo", http.MethodPut, path, importRequest{
		VCS:    "git",
		VCSURL: sourceRepoURL,
	}, nil); err != nil {
		return fmt.Errorf("import %s into %s: %w", sourceRepoURL, targetRepo, err)
	}
	return nil
}

type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// PushFileToRepo creates filePath in repoName with content in a single commit.
func (c *Client) PushFileToRepo(ctx context.Context, repoName, filePath, content, message string) error {
	path := fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(c.cfg.Owner), url.PathEscape(repoName), escapeFilePath(filePath))

	if err := c.call(ctx, "put_contents", http.MethodPut, path, contentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
	}, nil); err != nil {
		return fmt.Errorf("push %s to %s: %w", filePath, repoName, err)
	}

	slog.Info("file committed", "repo", repoName, "path", filePath)
	return nil
}

func escapeFilePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
