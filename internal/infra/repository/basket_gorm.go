package repository

import (
	"context"
	"errors"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BasketGormRepository struct {
	db *gorm.DB
}

func NewBasketGormRepository(db *gorm.DB) *BasketGormRepository {
	return &BasketGormRepository{db: db}
}

// Create inserts only the basket row. Items and the invoice are written
// by their own repositories.
func (r *BasketGormRepository) Create(ctx context.Context, b *model.Basket) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *BasketGormRepository) FindByID(ctx context.Context, id int64) (model.Basket, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *BasketGormRepository) FindByInvoiceID(ctx context.Context, invoiceID int64) (model.Basket, error) {
	return r.findOne(ctx, "invoice_id = ?", invoiceID)
}

func (r *BasketGormRepository) findOne(ctx context.Context, query string, arg any) (model.Basket, error) {
	var b model.Basket
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("items.id asc") }).
		Preload("Invoice").
		Where(query, arg).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Basket{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Basket{}, err
	}
	return b, nil
}
