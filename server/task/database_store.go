// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/go-mcp/mcptask"
)

// RecordModel is the GORM model backing DatabaseStore.
type RecordModel struct {
	SessionID string `gorm:"primaryKey;size:128"`
	TaskID    string `gorm:"primaryKey;size:64"`
	Kind      string `gorm:"size:32;not null"`
	Source    string `gorm:"size:512"`
	CreatedAt time.Time
	TTLMillis int64
	ExpiresAt time.Time `gorm:"index"`
}

// TableName returns the table used for task records.
func (RecordModel) TableName() string {
	return "tasks"
}

func toModel(record *Record) *RecordModel {
	return &RecordModel{
		SessionID: record.SessionID,
		TaskID:    record.TaskID,
		Kind:      string(record.Kind),
		Source:    record.Source,
		CreatedAt: record.CreatedAt.UTC(),
		TTLMillis: record.TTL.Milliseconds(),
		ExpiresAt: record.ExpiresAt.UTC(),
	}
}

func fromModel(model *RecordModel) *Record {
	return &Record{
		SessionID: model.SessionID,
		TaskID:    model.TaskID,
		Kind:      mcptask.TaskKind(model.Kind),
		Source:    model.Source,
		CreatedAt: model.CreatedAt.UTC(),
		TTL:       time.Duration(model.TTLMillis) * time.Millisecond,
		ExpiresAt: model.ExpiresAt.UTC(),
	}
}

// DatabaseStore is a database implementation of Store using GORM.
type DatabaseStore struct {
	db          *gorm.DB
	createTable bool
}

var _ Store = (*DatabaseStore)(nil)

// DatabaseStoreConfig holds configuration for DatabaseStore.
type DatabaseStoreConfig struct {
	DB *gorm.DB
	// CreateTable runs the schema migration during Initialize.
	CreateTable bool
}

// NewDatabaseStore creates a new DatabaseStore.
func NewDatabaseStore(config DatabaseStoreConfig) (*DatabaseStore, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &DatabaseStore{
		db:          config.DB,
		createTable: config.CreateTable,
	}, nil
}

// Save persists a record to the database.
func (s *DatabaseStore) Save(ctx context.Context, record *Record) error {
	if err := validate(record); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Save(toModel(record)).Error; err != nil {
		return NewStoreError("save", record.TaskID, err)
	}
	return nil
}

// Get retrieves a live record. Expired records are treated as missing.
func (s *DatabaseStore) Get(ctx context.Context, sessionID, taskID string) (*Record, error) {
	var model RecordModel
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND task_id = ?", sessionID, taskID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewNotFoundError(sessionID, taskID)
	}
	if err != nil {
		return nil, NewStoreError("get", taskID, err)
	}
	if time.Now().UTC().After(model.ExpiresAt) {
		return nil, NewNotFoundError(sessionID, taskID)
	}
	return fromModel(&model), nil
}

// Delete removes a record.
func (s *DatabaseStore) Delete(ctx context.Context, sessionID, taskID string) error {
	res := s.db.WithContext(ctx).
		Where("session_id = ? AND task_id = ?", sessionID, taskID).
		Delete(&RecordModel{})
	if res.Error != nil {
		return NewStoreError("delete", taskID, res.Error)
	}
	if res.RowsAffected == 0 {
		return NewNotFoundError(sessionID, taskID)
	}
	return nil
}

// List returns the session's live records ordered by creation time.
func (s *DatabaseStore) List(ctx context.Context, sessionID string, limit, offset int) ([]*Record, error) {
	query := s.db.WithContext(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, time.Now().UTC()).
		Order("created_at, task_id").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []RecordModel
	if err := query.Find(&models).Error; err != nil {
		return nil, NewStoreError("list", "", err)
	}

	records := make([]*Record, len(models))
	for i := range models {
		records[i] = fromModel(&models[i])
	}
	return records, nil
}

// Count returns the number of live records for the session.
func (s *DatabaseStore) Count(ctx context.Context, sessionID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&RecordModel{}).
		Where("session_id = ? AND expires_at > ?", sessionID, time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return 0, NewStoreError("count", "", err)
	}
	return int(count), nil
}

// DeleteExpired removes records whose expiry has passed.
func (s *DatabaseStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&RecordModel{})
	if res.Error != nil {
		return 0, NewStoreError("delete_expired", "", res.Error)
	}
	return res.RowsAffected, nil
}

// Initialize creates the task table when configured to do so.
func (s *DatabaseStore) Initialize(ctx context.Context) error {
	if !s.createTable {
		return nil
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&RecordModel{}); err != nil {
		return NewStoreError("initialize", "", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *DatabaseStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return NewStoreError("close", "", err)
	}
	return sqlDB.Close()
}
