package repository

import "context"

// SiteConfigRepository is the accessor of the singleton config row.
type SiteConfigRepository interface {
	DeliveryFee(ctx context.Context) (int64, error)
	SetDeliveryFee(ctx context.Context, fee int64) error
}
