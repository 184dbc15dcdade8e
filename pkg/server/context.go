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

import "context"

type contextKey string

const (
	contextKeyRequestID  contextKey = "requestID"
	contextKeyDeliveryID contextKey = "deliveryID"
	contextKeyAPIVersion contextKey = "apiVersion"
)

const (
	// RequestIDHeader carries the caller's request ID and is echoed on responses.
	RequestIDHeader = "X-Request-Id"
	// DeliveryIDHeader is the GUID GitHub assigns to each webhook delivery.
	DeliveryIDHeader = "X-GitHub-Delivery"
	// EventHeader names the GitHub event type of a webhook delivery.
	EventHeader = "X-GitHub-Event"
)

// RequestIDFrom returns the request ID set by the request ID middleware, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// DeliveryIDFrom returns the webhook delivery GUID of the request, or "" for
// requests that did not come from GitHub.
func DeliveryIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyDeliveryID).(string)
	return id
}

// APIVersionFrom returns the negotiated API version, or DefaultAPIVersion
// outside the middleware chain.
func APIVersionFrom(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyAPIVersion).(string); ok {
		return v
	}
	return DefaultAPIVersion
}
