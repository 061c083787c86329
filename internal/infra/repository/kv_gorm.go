package repository

import (
	"context"
	"errors"
	"time"

	repo "freshmart/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kv_entriesテーブルの1行。valueにはJSONを入れる。
type KVEntry struct {
	Key       string    `gorm:"column:key;primaryKey;size:255"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

type KVGormStore struct {
	db *gorm.DB
}

// DI
func NewKVGormStore(db *gorm.DB) *KVGormStore {
	return &KVGormStore{db: db}
}

func (s *KVGormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry

	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// 同一キーは上書き（ON CONFLICT DO UPDATE）
func (s *KVGormStore) Put(ctx context.Context, key string, value []byte) error {
	entry := KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *KVGormStore) Delete(ctx context.Context, key string) error {
	// 無いキーの削除は成功扱い
	return s.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&KVEntry{}).Error
}
