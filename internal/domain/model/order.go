package model

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusDibayar OrderStatus = "DIBAYAR"
	OrderStatusDikemas OrderStatus = "DIKEMAS"
	OrderStatusDikirim OrderStatus = "DIKIRIM"
	OrderStatusSelesai OrderStatus = "SELESAI"
	OrderStatusBatal   OrderStatus = "BATAL"
)

// statusRank orders the forward sequence. BATAL sits outside the sequence:
// it is terminal and reachable only from PENDING.
var statusRank = map[OrderStatus]int{
	OrderStatusPending: 0,
	OrderStatusDibayar: 1,
	OrderStatusDikemas: 2,
	OrderStatusDikirim: 3,
	OrderStatusSelesai: 4,
}

// IsValidStatus reports whether s is one of the closed enumeration.
func IsValidStatus(s OrderStatus) bool {
	if s == OrderStatusBatal {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusSelesai || s == OrderStatusBatal
}

type transitionKey struct {
	from OrderStatus
	to   OrderStatus
}

// allowedTransitions is the single source of truth for who may move an order
// between states. Payment confirmation and label minting belong to the system
// alone; staff handle packing, delivery confirmation and cancellation.
var allowedTransitions = map[transitionKey][]Role{
	{OrderStatusPending, OrderStatusDibayar}: {RoleSystem},
	{OrderStatusPending, OrderStatusBatal}:   {RoleSystem, RoleAdmin, RoleGudang},
	{OrderStatusDibayar, OrderStatusDikemas}: {RoleAdmin, RoleGudang},
	{OrderStatusDikemas, OrderStatusDikirim}: {RoleSystem},
	{OrderStatusDikirim, OrderStatusSelesai}: {RoleAdmin, RoleGudang},
}

// CanTransition answers (from, actor, to) against the table. Same-status
// "transitions" are allowed so redelivered callbacks stay no-ops; the caller
// decides whether to write anything. Backward moves are never allowed.
func CanTransition(from OrderStatus, actor Role, to OrderStatus) bool {
	if from == to {
		return true
	}
	roles, ok := allowedTransitions[transitionKey{from, to}]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == actor {
			return true
		}
	}
	return false
}

type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64       `gorm:"not null;index" json:"user_id"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice int64       `gorm:"not null" json:"total_price"`

	// SnapToken is the cached checkout session token from the payment
	// gateway; empty until the first successful token request.
	SnapToken string `gorm:"type:varchar(255)" json:"-"`

	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
