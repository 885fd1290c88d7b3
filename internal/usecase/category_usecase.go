package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	items, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, actor model.Actor, name string) (int64, error) {
	if actor.Role != model.RoleAdmin {
		return 0, NewHTTPError(http.StatusForbidden, "admin only")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "name required")
	}

	now := time.Now()
	c, err := u.categoryRepo.Create(ctx, model.Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusConflict, "category already exists")
	}
	return c.ID, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, actor model.Actor, id int64, name string) error {
	if actor.Role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}

	err := u.categoryRepo.Update(ctx, model.Category{ID: id, Name: name, UpdatedAt: time.Now()})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CategoryUsecase) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if actor.Role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.categoryRepo.Delete(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
