package repository

import (
	"context"
	"encoding/json"
	"errors"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
)

const auditKey = "audit"

type AuditKVRepository struct {
	kv repo.KV
}

// DI
func NewAuditKVRepository(kv repo.KV) *AuditKVRepository {
	return &AuditKVRepository{kv: kv}
}

func (r *AuditKVRepository) List(ctx context.Context) ([]model.AuditLog, error) {
	raw, err := r.kv.Get(ctx, auditKey)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.AuditLog{}, nil
	}
	if err != nil {
		return nil, err
	}

	var logs []model.AuditLog
	if err := json.Unmarshal(raw, &logs); err != nil {
		return []model.AuditLog{}, nil
	}
	return logs, nil
}

func (r *AuditKVRepository) Append(ctx context.Context, log model.AuditLog) error {
	logs, err := r.List(ctx)
	if err != nil {
		return err
	}

	logs = append(logs, log)

	raw, err := json.Marshal(logs)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, auditKey, raw)
}
