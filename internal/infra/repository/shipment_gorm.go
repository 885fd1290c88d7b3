package repository

import (
	"context"
	"errors"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"

	"gorm.io/gorm"
)

type ShipmentGormRepository struct {
	db *gorm.DB
}

func NewShipmentGormRepository(db *gorm.DB) *ShipmentGormRepository {
	return &ShipmentGormRepository{db: db}
}

func (r *ShipmentGormRepository) Create(ctx context.Context, s model.Shipment) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return 0, err
	}
	return s.ID, nil
}

func (r *ShipmentGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Shipment, error) {
	var s model.Shipment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shipment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shipment{}, err
	}
	return s, nil
}

// SetTrackingNumber writes the resi only onto a label-less shipment; a
// concurrent retry that lost the race gets false and reads the winner's resi.
func (r *ShipmentGormRepository) SetTrackingNumber(ctx context.Context, shipmentID int64, trackingNumber string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Shipment{}).
		Where("id = ? AND (tracking_number = '' OR tracking_number IS NULL)", shipmentID).
		Update("tracking_number", trackingNumber)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
