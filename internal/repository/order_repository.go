package repository

import (
	"context"
	"time"

	"tokonada/internal/domain/model"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// SalesBucket is one day of the sales report, aggregated over paid orders.
type SalesBucket struct {
	Day        time.Time `json:"day"`
	OrderCount int64     `json:"order_count"`
	Revenue    int64     `json:"revenue"`
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// UpdateStatusFrom flips status only when the row is still in `from`.
	// The conditional write is what serializes concurrent transitions:
	// false with nil error means another writer got there first.
	UpdateStatusFrom(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error)

	// SetSnapToken persists the token only when none is cached yet.
	SetSnapToken(ctx context.Context, orderID int64, token string) (bool, error)

	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)
	ListStaff(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	// Orders awaiting label printing (status filter), for the GUDANG queue.
	ListByStatus(ctx context.Context, status model.OrderStatus, page int, limit int) ([]model.Order, int64, error)

	SalesReport(ctx context.Context, from time.Time, to time.Time) ([]SalesBucket, error)
}
