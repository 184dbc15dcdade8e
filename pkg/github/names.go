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
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const deployedSuffix = "-deployed"

// DeploymentRepoName derives the deployment repository name for a user's app:
// lower(username) + "-" + appName + "-deployed". It is pure and stable, so
// the name can always be recomputed instead of stored.
func DeploymentRepoName(username, appName string) string {
	return lowerName(username) + "-" + appName + deployedSuffix
}

// lowerName lowercases a hosting account name. A Caser is stateful, so one is
// built per call.
func lowerName(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ParseRepoURL extracts owner and repository from the URL forms users paste:
//
//	https://github.com/owner/repo
//	https://www.github.com/owner/repo.git/
//	github.com/owner/repo
//	git@github.com:owner/repo.git
//	ssh://git@github.com/owner/repo.git
//
// Extra path segments after the repository (e.g. /tree/main) are ignored.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", fmt.Errorf("%w: empty", ErrInvalidRepoURL)
	}

	var path string
	switch {
	case strings.Contains(s, "://"):
		u, perr := url.Parse(s)
		if perr != nil {
			return "", "", fmt.Errorf("%w: %q: %v", ErrInvalidRepoURL, raw, perr)
		}
		if u.Host == "" {
			return "", "", fmt.Errorf("%w: %q has no host", ErrInvalidRepoURL, raw)
		}
		path = u.Path
	case strings.HasPrefix(s, "git@"):
		_, after, ok := strings.Cut(s, ":")
		if !ok {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidRepoURL, raw)
		}
		path = after
	default:
		// host/owner/repo without a scheme
		host, after, ok := strings.Cut(s, "/")
		if !ok || !strings.Contains(host, ".") {
			return "", "", fmt.Errorf("%w: %q has no host", ErrInvalidRepoURL, raw)
		}
		path = after
	}

	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q does not name owner/repo", ErrInvalidRepoURL, raw)
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: %q does not name owner/repo", ErrInvalidRepoURL, raw)
	}
	return owner, repo, nil
}
