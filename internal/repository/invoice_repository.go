package repository

import (
	"context"

	"github.com/spsina/bookStore/internal/domain/model"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) error
	FindByInternalIDForUpdate(ctx context.Context, internalID string) (model.Invoice, error)
	UpdateAmount(ctx context.Context, id int64, amount int64) error
	// Save writes status, timestamps and the gateway fields.
	Save(ctx context.Context, inv *model.Invoice) error
}
