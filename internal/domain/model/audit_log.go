package model

import "time"

type AuditAction string

const (
	AuditActionPreparePayment AuditAction = "PREPARE_PAYMENT"
	AuditActionVerifyPayment  AuditAction = "VERIFY_PAYMENT"
)

type AuditResourceType string

const (
	AuditResourceInvoice AuditResourceType = "invoice"
)

// AuditLog records one invoice transition: what ran, on which invoice,
// and the status snapshot before and after.
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	// JSON strings.
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
