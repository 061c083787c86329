package repository

import (
	"context"
	"encoding/json"
	"errors"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
)

const contactQueueKey = "contact:queue"

type ContactKVRepository struct {
	kv repo.KV
}

// DI
func NewContactKVRepository(kv repo.KV) *ContactKVRepository {
	return &ContactKVRepository{kv: kv}
}

func (r *ContactKVRepository) Pending(ctx context.Context) ([]model.ContactMessage, error) {
	raw, err := r.kv.Get(ctx, contactQueueKey)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.ContactMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	var msgs []model.ContactMessage
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return []model.ContactMessage{}, nil
	}
	return msgs, nil
}

func (r *ContactKVRepository) Enqueue(ctx context.Context, msg model.ContactMessage) error {
	msgs, err := r.Pending(ctx)
	if err != nil {
		return err
	}

	msgs = append(msgs, msg)

	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, contactQueueKey, raw)
}
