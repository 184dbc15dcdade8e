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
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/repodeploy/repodeploy/pkg/defaults"
)

// DefaultUserAgent identifies repodeploy to the hosting provider.
const DefaultUserAgent = "repodeploy/1.0"

// Config holds the account and endpoints the client operates on.
type Config struct {
	// BaseURL is the REST API root, e.g. https://api.github.com.
	BaseURL string
	// WebURL is the browser root repository links are built on. When empty it
	// is derived from BaseURL.
	WebURL string
	// Token authenticates every request.
	Token string
	// Owner is the account that owns the template and deployment repositories.
	Owner string
	// TemplateRepo is the repository new deployment repositories are generated from.
	TemplateRepo string
	// WebhookBaseURL is the public base URL of this service used for callbacks.
	WebhookBaseURL string
	// WebhookSecret, when set, is registered with each webhook for payload signing.
	WebhookSecret string
	// WorkflowPollInterval is the delay between availability probes.
	WorkflowPollInterval time.Duration
	// UserAgent overrides DefaultUserAgent.
	UserAgent string
}

// Client talks to the hosting provider's REST API. It is safe for concurrent
// use and read-only after construction.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPollInterval overrides the availability probe interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cfg.WorkflowPollInterval = d
		}
	}
}

// New creates a Client. Missing BaseURL, poll interval and user agent fall
// back to defaults.
func New(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.GitHubAPIURL
	}
	cfg.WebURL = strings.TrimRight(cfg.WebURL, "/")
	if cfg.WebURL == "" {
		cfg.WebURL = webURLFromAPI(cfg.BaseURL)
	}
	cfg.WebhookBaseURL = strings.TrimRight(cfg.WebhookBaseURL, "/")
	if cfg.WorkflowPollInterval <= 0 {
		cfg.WorkflowPollInterval = defaults.WorkflowPollInterval
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: newDefaultTransport(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// webURLFromAPI maps an API root to its browser root:
// https://api.github.com becomes https://github.com and an Enterprise
// https://ghe.example.com/api/v3 becomes https://ghe.example.com.
func webURLFromAPI(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return defaults.GitHubWebURL
	}
	u.Host = strings.TrimPrefix(u.Host, "api.")
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/api/v3")
	u.RawPath = ""
	return strings.TrimRight(u.String(), "/")
}

// Owner returns the account deployment repositories are created under.
func (c *Client) Owner() string {
	return c.cfg.Owner
}

func newDefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// send performs one authenticated round trip. Only transport failures are
// returned as errors; the caller interprets the status code.
func (c *Client) send(ctx context.Context, op, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", defaults.GitHubMediaType)
	req.Header.Set("X-GitHub-Api-Version", defaults.GitHubAPIVersion)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}

	slog.Debug("github request",
		"operation", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	return resp.StatusCode, data, nil
}

// call is send that treats any non-2xx status as an *APIError and decodes a
// successful body into out when out is non-nil.
func (c *Client) call(ctx context.Context, op, method, path string, body, out any) error {
	status, data, err := c.send(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return newAPIError(method, path, status, data)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", op, err)
		}
	}
	return nil
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       msg,
	}
}
