package repository

import (
	"fmt"

	"MeloFM/model"

	"gorm.io/gorm"
)

// PlayRecordRepository defines the interface for play record operations.
// Play records ride GORM rather than raw SQL.
type PlayRecordRepository interface {
	Create(record *model.PlayRecord) error
	ListByUser(userID string, limit int) ([]*model.PlayRecord, error)
}

type gormPlayRecordRepository struct {
	DB *gorm.DB
}

// NewGormPlayRecordRepository creates a play record repository over the given
// GORM connection.
func NewGormPlayRecordRepository(db *gorm.DB) PlayRecordRepository {
	return &gormPlayRecordRepository{DB: db}
}

// Create inserts one play record.
func (r *gormPlayRecordRepository) Create(record *model.PlayRecord) error {
	if err := r.DB.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create play record: %w", err)
	}
	return nil
}

// ListByUser returns the user's most recent play records.
func (r *gormPlayRecordRepository) ListByUser(userID string, limit int) ([]*model.PlayRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []*model.PlayRecord
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list play records for user %s: %w", userID, err)
	}
	return records, nil
}
