package repository

import (
	"context"
	"errors"

	"tokonada/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserListFilter struct {
	Page  int
	Limit int
	Role  string
	State string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, f UserListFilter) ([]model.User, int64, error)
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
