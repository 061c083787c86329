package repository

import (
	"context"

	"freshmart/internal/domain/model"
)

// 送信に失敗したお問い合わせを後送用に溜めておく。
type ContactRepository interface {
	Enqueue(ctx context.Context, msg model.ContactMessage) error
	Pending(ctx context.Context) ([]model.ContactMessage, error)
}
