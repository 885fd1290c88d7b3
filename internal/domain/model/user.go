package model

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
	RoleGudang   Role = "GUDANG"

	// RoleSystem is never stored on a user row. It is the actor role the
	// service itself uses for payment callbacks and label generation.
	RoleSystem Role = "SYSTEM"
)

// IsStaff reports whether the role may use the operations dashboard.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleGudang
}

// EntityState replaces a nullable deleted_at: rows are AKTIF or DIHAPUS,
// never physically removed while past orders still reference them.
type EntityState string

const (
	StateAktif   EntityState = "AKTIF"
	StateDihapus EntityState = "DIHAPUS"
)

type User struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"column:password_hash;not null" json:"-"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Role         Role        `gorm:"type:varchar(20);not null;default:'CUSTOMER'" json:"role"`
	TokenVersion int         `gorm:"not null;default:0" json:"token_version"`
	State        EntityState `gorm:"type:varchar(20);not null;default:'AKTIF';index" json:"state"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
