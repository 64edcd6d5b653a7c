package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/kabureco/kabureco/internal/common"
	"github.com/kabureco/kabureco/internal/interfaces"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStorage implements interfaces.KeyValueStorage on the document table.
type KVStorage struct {
	db     *gorm.DB
	logger *common.Logger
}

// NewKVStorage creates a new key-value storage backed by SQLite.
func NewKVStorage(db *gorm.DB, logger *common.Logger) *KVStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a value by key.
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	var doc Document
	err := s.db.WithContext(ctx).First(&doc, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return doc.Value, nil
}

// Set stores a key-value pair, replacing any existing value.
func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	doc := Document{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key-value pair.
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&Document{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// GetAll retrieves all key-value pairs.
func (s *KVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	var docs []Document
	if err := s.db.WithContext(ctx).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to get all keys: %w", err)
	}

	result := make(map[string]string, len(docs))
	for _, doc := range docs {
		result[doc.Key] = doc.Value
	}
	return result, nil
}
