package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
)

const usersKey = "users"

// 全ユーザーを1キーに持つ。ユーザー数は小さい前提。
type UserKVRepository struct {
	kv repo.KV
}

// DI
func NewUserKVRepository(kv repo.KV) *UserKVRepository {
	return &UserKVRepository{kv: kv}
}

func (r *UserKVRepository) loadAll(ctx context.Context) ([]model.User, error) {
	raw, err := r.kv.Get(ctx, usersKey)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.User{}, nil
	}
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return []model.User{}, nil
	}
	return users, nil
}

func (r *UserKVRepository) saveAll(ctx context.Context, users []model.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, usersKey, raw)
}

func (r *UserKVRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	users, err := r.loadAll(ctx)
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repo.ErrNotFound
}

// メールは大文字小文字を区別しない
func (r *UserKVRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	users, err := r.loadAll(ctx)
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, repo.ErrNotFound
}

// 同一IDがあれば置き換え、無ければ追加
func (r *UserKVRepository) Save(ctx context.Context, user model.User) error {
	users, err := r.loadAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}

	return r.saveAll(ctx, users)
}
