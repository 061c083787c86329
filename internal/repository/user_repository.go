package repository

import (
	"context"

	"freshmart/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Save(ctx context.Context, user model.User) error
}
