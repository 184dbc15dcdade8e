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
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/repodeploy/repodeploy/pkg/defaults"
)

const slowQueryThreshold = 200 * time.Millisecond

// SQLStore is a Store backed by sqlite.
type SQLStore struct {
	db *gorm.DB
}

var _ Store = (*SQLStore)(nil)

// Open connects to the sqlite database at dsn and migrates the schema.
// An empty dsn uses defaults.StoreDSN.
func Open(dsn string) (*SQLStore, error) {
	if dsn == "" {
		dsn = defaults.StoreDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.NewSlogLogger(slog.Default().With("component", "store"), logger.Config{
			SlowThreshold:             slowQueryThreshold,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			LogLevel:                  logger.Warn,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %q: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access store connection pool: %w", err)
	}
	// sqlite serializes writers; a single connection also keeps a shared
	// in-memory database alive for the life of the store.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Deployment{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	slog.Debug("deployment store opened", "dsn", dsn)
	return &SQLStore{db: db}, nil
}

// Save upserts d keyed by RepoName.
func (s *SQLStore) Save(ctx context.Context, d *Deployment) error {
	if d == nil || d.RepoName == "" {
		return errors.New("deployment record requires a repo name")
	}

	err := gorm.G[Deployment](s.db, clause.OnConflict{
		Columns: []clause.Column{{Name: "repo_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "app_name", "source_repo_url", "language", "has_dockerfile",
			"port", "status", "webhook_status", "updated_at",
		}),
	}).Create(ctx, d)
	if err != nil {
		return fmt.Errorf("failed to save deployment %s: %w", d.RepoName, err)
	}
	return nil
}

// Get returns the record for repoName or ErrNotFound.
func (s *SQLStore) Get(ctx context.Context, repoName string) (*Deployment, error) {
	found, err := gorm.G[Deployment](s.db).Where("repo_name = ?", repoName).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, repoName)
		}
		return nil, fmt.Errorf("failed to get deployment %s: %w", repoName, err)
	}
	return &found, nil
}

// List returns all records, newest first.
func (s *SQLStore) List(ctx context.Context) ([]*Deployment, error) {
	founds, err := gorm.G[Deployment](s.db).Order("created_at DESC, id DESC").Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	res := make([]*Deployment, len(founds))
	for i := range founds {
		res[i] = &founds[i]
	}
	return res, nil
}

// MarkTriggered bumps the trigger count and moves the record to
// StatusImportTriggered. A non-empty sourceURL replaces the stored one.
func (s *SQLStore) MarkTriggered(ctx context.Context, repoName, sourceURL string) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"status":            StatusImportTriggered,
		"trigger_count":     gorm.Expr("trigger_count + ?", 1),
		"last_triggered_at": now,
		"updated_at":        now,
	}
	if sourceURL != "" {
		updates["source_repo_url"] = sourceURL
	}
	return s.update(ctx, repoName, updates)
}

// SetStatus changes the status of an existing record.
func (s *SQLStore) SetStatus(ctx context.Context, repoName string, status Status) error {
	return s.update(ctx, repoName, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

func (s *SQLStore) update(ctx context.Context, repoName string, updates map[string]any) error {
	res := s.db.WithContext(ctx).Model(&Deployment{}).Where("repo_name = ?", repoName).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update deployment %s: %w", repoName, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, repoName)
	}
	return nil
}

// Ping checks that the database connection is usable.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the database connection.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
