package repository

import (
	"context"
	"errors"

	"tokonada/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	MinPrice   *int64
	MaxPrice   *int64
	Sort       string
}

// Persistence for products. ListPublic and FindBySlug see AKTIF rows only;
// FindByID also returns DIHAPUS rows so past orders keep resolving.
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	MarkDeleted(ctx context.Context, id int64) error
}
