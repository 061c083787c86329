package repository

import (
	"context"
	"encoding/json"
	"errors"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
)

type OrderKVRepository struct {
	kv repo.KV
}

// DI
func NewOrderKVRepository(kv repo.KV) *OrderKVRepository {
	return &OrderKVRepository{kv: kv}
}

// キー無し・JSON破損は空リスト扱い
func (r *OrderKVRepository) LoadAll(ctx context.Context, col repo.OrderCollection) ([]model.Order, error) {
	raw, err := r.kv.Get(ctx, string(col))
	if errors.Is(err, repo.ErrNotFound) {
		return []model.Order{}, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []model.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return []model.Order{}, nil
	}

	return orders, nil
}

func (r *OrderKVRepository) SaveAll(ctx context.Context, col repo.OrderCollection, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}

	raw, err := json.Marshal(orders)
	if err != nil {
		return err
	}

	return r.kv.Put(ctx, string(col), raw)
}
