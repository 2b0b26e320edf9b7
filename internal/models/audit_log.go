package models

import "time"

type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionUpdate  AuditAction = "update"
	AuditActionDelete  AuditAction = "delete"
	AuditActionReverse AuditAction = "reverse"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	// Hangi bayi?
	FranchiseID *uint `json:"franchiseId"`

	// Hangi kullanıcı?
	UserID   uint   `json:"userId"`
	UserName string `gorm:"size:100" json:"userName"` // Kullanıcı adı (denormalize)

	// Hangi entity? (ör: "product", "inventory_transaction", "order", "franchise")
	EntityType string `gorm:"size:50;index" json:"entityType"`
	EntityID   uint   `gorm:"index" json:"entityId"`

	// İşlem tipi: create/update/delete/reverse
	Action AuditAction `gorm:"size:20" json:"action"`

	// Opsiyonel açıklama (küçük bir özet)
	Description string `gorm:"size:255" json:"description"`

	// Önceki ve sonraki hal (JSON)
	BeforeData string `gorm:"type:jsonb" json:"beforeData"`
	AfterData  string `gorm:"type:jsonb" json:"afterData"`
}
