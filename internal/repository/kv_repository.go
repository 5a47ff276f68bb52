package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"daily-routine/internal/model"
)

// KVRepository stores profile key-value pairs in the entries table.
type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

func (r *KVRepository) Get(ctx context.Context, owner, key string) ([]byte, bool, error) {
	var entry model.Entry
	err := r.db.WithContext(ctx).Where("owner = ? AND key = ?", owner, key).First(&entry).Error
	switch {
	case err == nil:
		return []byte(entry.Value), true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("find entry: %w", err)
	}
}

// Put inserts or replaces the value for owner and key.
func (r *KVRepository) Put(ctx context.Context, owner, key string, value []byte) error {
	entry := model.Entry{Owner: owner, Key: key, Value: string(value)}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, owner, key string) error {
	if err := r.db.WithContext(ctx).Where("owner = ? AND key = ?", owner, key).
		Delete(&model.Entry{}).Error; err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}
