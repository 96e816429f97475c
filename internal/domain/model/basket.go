package model

import "time"

type BasketStatus string

const (
	BasketStatusPending BasketStatus = "PENDING"
	BasketStatusDone    BasketStatus = "DONE"
)

// BufferWindow is how long an unresolved payment attempt keeps its stock
// reserved, measured from the invoice's last try.
const BufferWindow = 15 * time.Minute

// MinOrderAmount is the smallest basket subtotal accepted, in Toman.
const MinOrderAmount int64 = 1000

type Basket struct {
	ID            int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserProfileID int64        `gorm:"not null;index" json:"user_profile_id"`
	InvoiceID     int64        `gorm:"not null;uniqueIndex" json:"invoice_id"`
	Status        BasketStatus `gorm:"type:varchar(20);not null;default:PENDING" json:"status"`
	IsGift        bool         `gorm:"not null;default:false" json:"is_gift"`
	Description   string       `gorm:"type:text" json:"description"`
	CreatedAt     time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`

	Items   []Item  `gorm:"foreignKey:BasketID" json:"items"`
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"invoice"`
}

func (b Basket) Subtotal() int64 {
	var total int64
	for _, it := range b.Items {
		total += it.Subtotal()
	}
	return total
}

// IsExpired reports whether the last payment attempt is older than the
// buffer window. Nothing is written when a basket expires.
func (b Basket) IsExpired(now time.Time) bool {
	return now.Sub(b.Invoice.LastTryDatetime) > BufferWindow
}

func (b Basket) IsValidForPayment(now time.Time) bool {
	return !b.IsExpired(now) && b.Invoice.Status == InvoiceStatusCreated
}

// IsValidForVerification also accepts IN_PAYMENT. Resolved invoices are
// never verified twice.
func (b Basket) IsValidForVerification(now time.Time) bool {
	if b.IsExpired(now) {
		return false
	}
	switch b.Invoice.Status {
	case InvoiceStatusCreated, InvoiceStatusInPayment:
		return true
	default:
		return false
	}
}
