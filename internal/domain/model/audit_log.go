package model

import "time"

type AuditAction string

const (
	AuditActionUpdateStock       AuditAction = "UPDATE_STOCK"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionGenerateLabel     AuditAction = "GENERATE_LABEL"
	AuditActionUpdateUser        AuditAction = "UPDATE_USER"
)

type AuditResourceType string

const (
	AuditResourceProduct  AuditResourceType = "product"
	AuditResourceOrder    AuditResourceType = "order"
	AuditResourceUser     AuditResourceType = "user"
	AuditResourceShipment AuditResourceType = "shipment"
)

// AuditLog records who changed what: actor, action, target and the
// before/after snapshots as JSON strings.
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
