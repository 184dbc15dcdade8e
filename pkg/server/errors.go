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

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
	"github.com/repodeploy/repodeploy/pkg/serializer"
)

// ErrorResponse is the JSON body of every error returned by the API.
// Detail carries the full error text for clients that only read one field.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Detail    string         `json:"detail"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes a structured error response.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code rderrors.ErrorCode, message string, retryable bool, details map[string]any) {

	writeErrorResponse(w, r, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Detail:    message,
		Details:   details,
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps err to a status code through its StructuredError code
// and writes the response. Errors without a code are reported as INTERNAL.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error,
	fallbackMessage string, extraDetails map[string]any) {

	code := rderrors.CodeOf(err)
	WriteErrorFromErrWithStatus(w, r, HTTPStatusFromCode(code), err, fallbackMessage, extraDetails)
}

// WriteErrorFromErrWithStatus is WriteErrorFromErr with a fixed status code.
// The code and retryable flag still come from err.
func WriteErrorFromErrWithStatus(w http.ResponseWriter, r *http.Request, statusCode int,
	err error, fallbackMessage string, extraDetails map[string]any) {

	code := rderrors.CodeOf(err)
	message := fallbackMessage
	var details map[string]any

	var se *rderrors.StructuredError
	if errors.As(err, &se) {
		if se.Message != "" {
			message = se.Message
		}
		details = mergeDetails(details, se.Context)
		if se.Cause != nil {
			details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
		}
	} else if err != nil {
		details = map[string]any{"error": err.Error()}
	}
	details = mergeDetails(details, extraDetails)

	detail := message
	if err != nil {
		detail = err.Error()
	}

	writeErrorResponse(w, r, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Detail:    detail,
		Details:   details,
		Retryable: retryableFromCode(code),
	})
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, resp ErrorResponse) {
	resp.RequestID = RequestIDFrom(r.Context())
	if resp.RequestID == "" {
		resp.RequestID = uuid.New().String()
	}
	resp.Timestamp = time.Now().UTC()

	serializer.RespondJSON(w, statusCode, resp)
}

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code rderrors.ErrorCode) int {
	switch code {
	case rderrors.ErrCodeInvalidRequest, rderrors.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case rderrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case rderrors.ErrCodeNotFound:
		return http.StatusNotFound
	case rderrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case rderrors.ErrCodeConflict:
		return http.StatusConflict
	case rderrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case rderrors.ErrCodeUpstream:
		return http.StatusBadGateway
	case rderrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case rderrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code rderrors.ErrorCode) bool {
	switch code {
	case rderrors.ErrCodeTimeout, rderrors.ErrCodeUnavailable, rderrors.ErrCodeRateLimitExceeded,
		rderrors.ErrCodeInternal, rderrors.ErrCodeUpstream:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with b's entries overriding a's, or nil when both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
