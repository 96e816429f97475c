package repository

import (
	"context"
	"errors"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) Create(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// FindByInternalIDForUpdate locks the row so Prepare and Verify run one at a time.
func (r *InvoiceGormRepository) FindByInternalIDForUpdate(ctx context.Context, internalID string) (model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("internal_id = ?", internalID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Invoice{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) UpdateAmount(ctx context.Context, id int64, amount int64) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("amount", amount)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InvoiceGormRepository) Save(ctx context.Context, inv *model.Invoice) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"status":            inv.Status,
			"payment_token":     inv.PaymentToken,
			"trans_id":          inv.TransID,
			"card_number":       inv.CardNumber,
			"ref_number":        inv.RefNumber,
			"tracing_code":      inv.TracingCode,
			"cid":               inv.CID,
			"payment_date":      inv.PaymentDate,
			"gateway_response":  inv.GatewayResponse,
			"last_try_datetime": inv.LastTryDatetime,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
