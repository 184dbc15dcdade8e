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
	"errors"
	"fmt"
	"net/http"

	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
)

var (
	// ErrTimeout is wrapped by WaitForWorkflow and WaitForRepo when the
	// resource did not become reachable within the polling window.
	ErrTimeout = errors.New("timed out waiting for resource")

	// ErrInvalidRepoURL is returned by ParseRepoURL when owner and repository
	// cannot be extracted.
	ErrInvalidRepoURL = errors.New("invalid repository URL")
)

// maxErrorBody caps how much of an error response body is kept on APIError.
const maxErrorBody = 4 << 10

// APIError is a non-success response from the hosting provider.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("github: %s %s returned %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("github: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsConflict reports whether the provider rejected the request as a
// validation failure, e.g. a repository name that already exists.
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// Code classifies the response status.
func (e *APIError) Code() rderrors.ErrorCode {
	switch e.StatusCode {
	case http.StatusUnprocessableEntity:
		return rderrors.ErrCodeConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return rderrors.ErrCodeUnauthorized
	case http.StatusNotFound:
		return rderrors.ErrCodeNotFound
	default:
		return rderrors.ErrCodeUpstream
	}
}

// AsStructured converts a client error into a StructuredError so the HTTP
// layer can report its code. Errors that already carry a code are returned
// unchanged; nil stays nil.
func AsStructured(err error, message string) error {
	if err == nil {
		return nil
	}

	var se *rderrors.StructuredError
	if errors.As(err, &se) {
		return err
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return rderrors.WrapWithContext(apiErr.Code(), message, err, map[string]any{
			"status": apiErr.StatusCode,
			"path":   apiErr.Path,
		})
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return rderrors.Wrap(rderrors.ErrCodeTimeout, message, err)
	case errors.Is(err, ErrInvalidRepoURL):
		return rderrors.Wrap(rderrors.ErrCodeInvalidRequest, message, err)
	case errors.Is(err, context.Canceled):
		return rderrors.Wrap(rderrors.ErrCodeUnavailable, message, err)
	default:
		return rderrors.Wrap(rderrors.ErrCodeUpstream, message, err)
	}
}
