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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
)

type middleware func(http.HandlerFunc) http.HandlerFunc

// chain applies mws so that the first one is the outermost.
func chain(h http.HandlerFunc, mws ...middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// withMiddleware wraps application handlers. Panics are recovered before the
// rate limiter so a crashing handler does not hold tokens.
func (s *Server) withMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return chain(handler,
		s.metricsMiddleware,
		s.versionMiddleware,
		s.requestIDMiddleware,
		s.panicRecoveryMiddleware,
		s.rateLimitMiddleware,
		s.loggingMiddleware,
	)
}

// versionMiddleware negotiates the API version and echoes it on the response.
func (s *Server) versionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := negotiateAPIVersion(r)
		SetAPIVersionHeader(w, version)
		ctx := context.WithValue(r.Context(), contextKeyAPIVersion, version)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requestIDMiddleware assigns each request an ID. A valid caller-supplied
// X-Request-Id wins, then the GitHub delivery GUID so webhook logs line up
// with the delivery log in the repository settings.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		delivery := r.Header.Get(DeliveryIDHeader)
		if delivery != "" {
			ctx = context.WithValue(ctx, contextKeyDeliveryID, delivery)
		}

		requestID := firstUUID(r.Header.Get(RequestIDHeader), delivery)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx = context.WithValue(ctx, contextKeyRequestID, requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func firstUUID(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if id, err := uuid.Parse(c); err == nil {
			return id.String()
		}
	}
	return ""
}

// rateLimitMiddleware rejects requests once the shared token bucket is empty.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	limit := strconv.Itoa(int(s.config.RateLimit))
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", "1")
			WriteError(w, r, http.StatusTooManyRequests, rderrors.ErrCodeRateLimitExceeded,
				"Rate limit exceeded", true, map[string]any{
					"limit": s.config.RateLimit,
					"burst": s.config.RateLimitBurst,
				})
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(int(s.rateLimiter.Tokens())))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

		next.ServeHTTP(w, r)
	}
}

// panicRecoveryMiddleware turns a handler panic into a 500 error response.
func (s *Server) panicRecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			panicRecoveries.Inc()
			slog.Error("panic recovered",
				"error", fmt.Sprint(rec),
				"requestID", RequestIDFrom(r.Context()),
				"route", routeLabel(r),
				"method", r.Method,
			)
			WriteError(w, r, http.StatusInternalServerError, rderrors.ErrCodeInternal,
				"Internal server error", true, nil)
		}()
		next.ServeHTTP(w, r)
	}
}

// loggingMiddleware logs one line per request. Server errors log at warn,
// everything else at debug.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		level := slog.LevelDebug
		if rw.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}

		attrs := []any{
			"requestID", RequestIDFrom(r.Context()),
			"method", r.Method,
			"route", routeLabel(r),
			"path", r.URL.Path,
			"status", rw.Status(),
			"duration", time.Since(start).String(),
		}
		if d := DeliveryIDFrom(r.Context()); d != "" {
			attrs = append(attrs, "delivery", d, "event", r.Header.Get(EventHeader))
		}
		slog.Log(r.Context(), level, "request completed", attrs...)
	}
}
