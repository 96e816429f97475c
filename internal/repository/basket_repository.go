package repository

import (
	"context"

	"github.com/spsina/bookStore/internal/domain/model"
)

type BasketRepository interface {
	Create(ctx context.Context, b *model.Basket) error
	// FindByID preloads Items and Invoice.
	FindByID(ctx context.Context, id int64) (model.Basket, error)
	FindByInvoiceID(ctx context.Context, invoiceID int64) (model.Basket, error)
}
