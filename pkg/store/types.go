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

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for a repository name.
var ErrNotFound = errors.New("deployment not found")

// Status is the lifecycle state of a deployment record.
type Status string

const (
	StatusCreated         Status = "created"
	StatusImportTriggered Status = "import_triggered"
	StatusFailed          Status = "failed"
)

// Deployment is one deployment repository and where it imports from.
type Deployment struct {
	ID              uint       `gorm:"primaryKey" json:"-" yaml:"-"`
	RepoName        string     `gorm:"uniqueIndex;not null" json:"repo_name" yaml:"repo_name"`
	Username        string     `json:"username" yaml:"username"`
	AppName         string     `json:"app_name" yaml:"app_name"`
	SourceRepoURL   string     `json:"source_repo_url" yaml:"source_repo_url"`
	Language        string     `json:"language,omitempty" yaml:"language,omitempty"`
	HasDockerfile   bool       `json:"has_dockerfile" yaml:"has_dockerfile"`
	Port            int        `json:"port" yaml:"port"`
	Status          Status     `gorm:"index" json:"status" yaml:"status"`
	WebhookStatus   string     `json:"webhook_status,omitempty" yaml:"webhook_status,omitempty"`
	TriggerCount    int        `json:"trigger_count" yaml:"trigger_count"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty" yaml:"last_triggered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" yaml:"updated_at"`
}

// TableName pins the table name independent of the struct name.
func (Deployment) TableName() string {
	return "deployments"
}

// Store persists deployment records.
type Store interface {
	// Save inserts d or, when a record with the same RepoName exists,
	// overwrites its fields.
	Save(ctx context.Context, d *Deployment) error
	Get(ctx context.Context, repoName string) (*Deployment, error)
	List(ctx context.Context) ([]*Deployment, error)
	// MarkTriggered records that a push re-triggered the import.
	MarkTriggered(ctx context.Context, repoName, sourceURL string) error
	SetStatus(ctx context.Context, repoName string, status Status) error
	Close() error
}
