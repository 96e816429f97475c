package model

import "time"

// SiteConfigID is the primary key of the only SiteConfig row.
const SiteConfigID int64 = 1

// SiteConfig holds the tunables read by several flows. Invoices snapshot
// the delivery fee, so editing it never touches past invoices.
type SiteConfig struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	DeliveryFee int64     `gorm:"not null;default:0" json:"delivery_fee"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
