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

// Package config loads repodeploy settings from defaults, an optional YAML or
// .env file, and environment variables, in increasing order of precedence.
//
// Environment variable names follow the deployment conventions of the
// service (GITHUB_TOKEN, TEMPLATE_REPO, WEBHOOK_URL, ...) rather than a
// common prefix; any other key can be set with REPODEPLOY_<SECTION>_<KEY>.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	"github.com/spf13/viper"
)

// EnvPrefix is applied to keys without a dedicated environment variable.
const EnvPrefix = "REPODEPLOY"

// Config holds all application configuration.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Deploy  DeployConfig  `mapstructure:"deploy"`
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

// GitHubConfig holds the hosting provider credentials and template location.
type GitHubConfig struct {
	Token        string `mapstructure:"token"`
	Username     string `mapstructure:"username"`
	TemplateRepo string `mapstructure:"template_repo"`
	APIURL       string `mapstructure:"api_url"`
	// WebURL overrides the browser root derived from APIURL.
	WebURL string `mapstructure:"web_url"`
}

// WebhookConfig holds the public base URL GitHub calls back and the shared secret.
type WebhookConfig struct {
	URL    string `mapstructure:"url"`
	Secret string `mapstructure:"secret"`
}

// DeployConfig tunes the orchestration sequence.
type DeployConfig struct {
	WorkflowFile    string        `mapstructure:"workflow_file"`
	WaitTimeout     time.Duration `mapstructure:"wait_timeout"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	ManifestEnabled bool          `mapstructure:"manifest_enabled"`
	ManifestPath    string        `mapstructure:"manifest_path"`
	ImageRegistry   string        `mapstructure:"image_registry"`
}

// StoreConfig configures the deployment registry. An empty DSN disables it.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ServerConfig holds the inbound HTTP settings.
type ServerConfig struct {
	Port           int     `mapstructure:"port"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to their conventional environment variables.
// The first variable that is set wins.
var envBindings = map[string][]string{
	"github.token":         {"GITHUB_TOKEN"},
	"github.username":      {"GITHUB_USERNAME"},
	"github.template_repo": {"TEMPLATE_REPO"},
	"github.api_url":       {"GITHUB_API_URL"},
	"github.web_url":       {"GITHUB_WEB_URL"},
	"webhook.url":          {"WEBHOOK_URL"},
	"webhook.secret":       {"WEBHOOK_SECRET"},
	"server.port":          {"PORT"},
	"log.level":            {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.token", "")
	v.SetDefault("github.username", "")
	v.SetDefault("github.template_repo", "")
	v.SetDefault("github.api_url", defaults.GitHubAPIURL)
	v.SetDefault("github.web_url", "")
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("deploy.workflow_file", defaults.ImportWorkflowFile)
	v.SetDefault("deploy.wait_timeout", defaults.WorkflowWaitTimeout)
	v.SetDefault("deploy.poll_interval", defaults.WorkflowPollInterval)
	v.SetDefault("deploy.manifest_enabled", true)
	v.SetDefault("deploy.manifest_path", defaults.ManifestPath)
	v.SetDefault("deploy.image_registry", defaults.ImageRegistry)
	v.SetDefault("store.dsn", defaults.StoreDSN)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_limit_burst", 200)
	v.SetDefault("log.level", "info")
}

// Load builds a Config. path may be empty, a YAML file, or a dotenv file
// (".env" suffix) holding the same variables the environment would.
// Values from the process environment always win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if isDotEnv(path) {
			if err := loadDotEnv(v, path); err != nil {
				return nil, err
			}
		} else {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		input := append([]string{key}, names...)
		if err := v.BindEnv(input...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	return &cfg, nil
}

func isDotEnv(path string) bool {
	base := filepath.Base(path)
	return base == ".env" || strings.HasSuffix(base, ".env")
}

// loadDotEnv reads KEY=VALUE pairs and applies them as defaults so that real
// environment variables still take precedence.
func loadDotEnv(v *viper.Viper, path string) error {
	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	for key, names := range envBindings {
		for _, name := range names {
			if val := ev.GetString(strings.ToLower(name)); val != "" {
				v.SetDefault(key, val)
				break
			}
		}
	}
	for _, envKey := range ev.AllKeys() {
		rest, ok := strings.CutPrefix(envKey, strings.ToLower(EnvPrefix)+"_")
		if !ok {
			continue
		}
		section, field, ok := strings.Cut(rest, "_")
		if !ok {
			continue
		}
		v.SetDefault(section+"."+field, ev.GetString(envKey))
	}
	return nil
}

func (c *Config) normalize() {
	c.GitHub.APIURL = strings.TrimRight(strings.TrimSpace(c.GitHub.APIURL), "/")
	c.GitHub.WebURL = strings.TrimRight(strings.TrimSpace(c.GitHub.WebURL), "/")
	c.Webhook.URL = strings.TrimRight(strings.TrimSpace(c.Webhook.URL), "/")
	c.Deploy.ManifestPath = strings.TrimLeft(c.Deploy.ManifestPath, "/")
	c.Deploy.ImageRegistry = strings.TrimRight(c.Deploy.ImageRegistry, "/")
}

// Validate reports every missing or out-of-range setting needed to talk to
// the hosting provider and to register webhooks.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key, env, value string
	}{
		{"github.token", "GITHUB_TOKEN", c.GitHub.Token},
		{"github.username", "GITHUB_USERNAME", c.GitHub.Username},
		{"github.template_repo", "TEMPLATE_REPO", c.GitHub.TemplateRepo},
		{"webhook.url", "WEBHOOK_URL", c.Webhook.URL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required (set %s)", r.key, r.env))
		}
	}

	if c.GitHub.APIURL == "" {
		errs = append(errs, errors.New("github.api_url must not be empty"))
	}
	if c.Deploy.WorkflowFile == "" {
		errs = append(errs, errors.New("deploy.workflow_file must not be empty"))
	}
	if c.Deploy.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("deploy.poll_interval must be positive, got %s", c.Deploy.PollInterval))
	}
	if c.Deploy.WaitTimeout < c.Deploy.PollInterval {
		errs = append(errs, fmt.Errorf("deploy.wait_timeout (%s) must not be shorter than deploy.poll_interval (%s)",
			c.Deploy.WaitTimeout, c.Deploy.PollInterval))
	}
	if c.Deploy.ManifestEnabled && c.Deploy.ManifestPath == "" {
		errs = append(errs, errors.New("deploy.manifest_path is required when manifests are enabled"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit <= 0 || c.Server.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("server.rate_limit and server.rate_limit_burst must be positive"))
	}

	return errors.Join(errs...)
}
