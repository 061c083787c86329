package repository

import (
	"context"

	"freshmart/internal/domain/model"
)

// ユーザーごとのカート行を丸ごと読み書きする。
// 壊れたデータは空カートとして扱う（エラーにしない）。
type CartRepository interface {
	Load(ctx context.Context, userID string) ([]model.CartLine, error)
	Save(ctx context.Context, userID string, lines []model.CartLine) error
	Clear(ctx context.Context, userID string) error
}
