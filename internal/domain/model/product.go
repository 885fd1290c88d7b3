package model

import "time"

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  int64  `gorm:"not null;index" json:"category_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	// Price in rupiah, no decimals.
	Price int64 `gorm:"not null" json:"price"`

	// WeightGrams feeds shipping cost and label weight.
	WeightGrams int64 `gorm:"not null" json:"weight_grams"`

	Stock    int64       `gorm:"not null" json:"stock"`
	ImageURL string      `gorm:"type:varchar(512)" json:"image_url"`
	State    EntityState `gorm:"type:varchar(20);not null;default:'AKTIF';index" json:"state"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
