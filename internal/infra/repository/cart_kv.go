package repository

import (
	"context"
	"encoding/json"
	"errors"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
)

const cartKeyPrefix = "cart:"

type CartKVRepository struct {
	kv repo.KV
}

// DI
func NewCartKVRepository(kv repo.KV) *CartKVRepository {
	return &CartKVRepository{kv: kv}
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

// キー無し・JSON破損はどちらも空カート扱い
func (r *CartKVRepository) Load(ctx context.Context, userID string) ([]model.CartLine, error) {
	raw, err := r.kv.Get(ctx, cartKey(userID))
	if errors.Is(err, repo.ErrNotFound) {
		return []model.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []model.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return []model.CartLine{}, nil
	}

	return model.SanitizeCartLines(lines), nil
}

func (r *CartKVRepository) Save(ctx context.Context, userID string, lines []model.CartLine) error {
	if lines == nil {
		lines = []model.CartLine{}
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}

	return r.kv.Put(ctx, cartKey(userID), raw)
}

func (r *CartKVRepository) Clear(ctx context.Context, userID string) error {
	return r.kv.Delete(ctx, cartKey(userID))
}
