package model

import "time"

// Shipment is 1:1 with Order. TrackingNumber (resi) stays empty until label
// generation succeeds; a non-empty value means a label already exists and
// must never be minted again.
type Shipment struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;uniqueIndex" json:"order_id"`

	RecipientName  string `gorm:"type:varchar(255);not null" json:"recipient_name"`
	RecipientPhone string `gorm:"type:varchar(30);not null" json:"recipient_phone"`
	Address        string `gorm:"type:varchar(512);not null" json:"address"`
	AreaID         string `gorm:"type:varchar(100);not null" json:"area_id"`
	City           string `gorm:"type:varchar(255);not null" json:"city"`
	Province       string `gorm:"type:varchar(255);not null" json:"province"`
	PostalCode     string `gorm:"type:varchar(20)" json:"postal_code"`

	Courier      string `gorm:"type:varchar(50);not null" json:"courier"`
	Service      string `gorm:"type:varchar(50);not null" json:"service"`
	ShippingCost int64  `gorm:"not null" json:"shipping_cost"`
	WeightGrams  int64  `gorm:"not null" json:"weight_grams"`

	TrackingNumber string `gorm:"type:varchar(100)" json:"tracking_number"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
