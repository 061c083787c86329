package repository

import (
	"context"

	"freshmart/internal/domain/model"
)

// 監査ログは追記のみ。
type AuditLogRepository interface {
	Append(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context) ([]model.AuditLog, error)
}
