package repository

import (
	"context"

	"tokonada/internal/domain/model"
)

type ShipmentRepository interface {
	Create(ctx context.Context, s model.Shipment) (int64, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Shipment, error)

	// SetTrackingNumber writes the resi only when none exists yet. A false
	// result means a concurrent label request already persisted one.
	SetTrackingNumber(ctx context.Context, shipmentID int64, trackingNumber string) (bool, error)
}
