package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// KV はコレクション丸ごとを1キーに読み書きする最小ストア。
// 書き込みは常に上書き（last write wins）。
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
