package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trackmyprogress/internal/model"
)

// StoreRepository persists key-value entries in SQL.
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository builds a GORM-backed repository.
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Read returns the value stored under key; ok is false when no row exists.
func (r *StoreRepository) Read(ctx context.Context, key string) (string, bool, error) {
	var entry model.StoreEntry
	err := r.db.WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find entry %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Write inserts or replaces the row for key.
func (r *StoreRepository) Write(ctx context.Context, key, value string) error {
	entry := model.StoreEntry{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert entry %s: %w", key, err)
	}
	return nil
}

// Remove deletes the row for key, if any.
func (r *StoreRepository) Remove(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&model.StoreEntry{}).Error; err != nil {
		return fmt.Errorf("delete entry %s: %w", key, err)
	}
	return nil
}
