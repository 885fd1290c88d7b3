package repository

import (
	"context"

	"tokonada/internal/domain/model"
)

type InventoryRepository interface {
	// Set the current stock value (staff correction).
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// Decrement only when enough stock remains; false means insufficient.
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// Return stock (cancellation of a paid order would use this).
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
