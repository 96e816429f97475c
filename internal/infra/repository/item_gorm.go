package repository

import (
	"context"
	"time"

	"github.com/spsina/bookStore/internal/domain/model"

	"gorm.io/gorm"
)

type ItemGormRepository struct {
	db *gorm.DB
}

func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

func (r *ItemGormRepository) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *ItemGormRepository) ListByBasketID(ctx context.Context, basketID int64) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("basket_id = ?", basketID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemGormRepository) SoldCount(ctx context.Context, bookID int64, now time.Time, window time.Duration) (int64, error) {
	var sold int64
	err := r.holdingStock(ctx, now, window).
		Select("CAST(COALESCE(SUM(items.count), 0) AS BIGINT)").
		Where("items.book_id = ?", bookID).
		Scan(&sold).Error
	if err != nil {
		return 0, err
	}
	return sold, nil
}

func (r *ItemGormRepository) SoldCounts(ctx context.Context, bookIDs []int64, now time.Time, window time.Duration) (map[int64]int64, error) {
	out := make(map[int64]int64, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		BookID int64
		Sold   int64
	}
	err := r.holdingStock(ctx, now, window).
		Select("items.book_id AS book_id, CAST(COALESCE(SUM(items.count), 0) AS BIGINT) AS sold").
		Where("items.book_id IN ?", bookIDs).
		Group("items.book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.BookID] = row.Sold
	}
	return out, nil
}

// holdingStock scopes items to those whose invoice still holds stock.
func (r *ItemGormRepository) holdingStock(ctx context.Context, now time.Time, window time.Duration) *gorm.DB {
	cutoff := now.Add(-window)
	pending := []string{string(model.InvoiceStatusCreated), string(model.InvoiceStatusInPayment)}

	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Joins("JOIN baskets ON baskets.id = items.basket_id").
		Joins("JOIN invoices ON invoices.id = baskets.invoice_id").
		Where("(invoices.status = ? OR (invoices.status IN ? AND invoices.last_try_datetime >= ?))",
			string(model.InvoiceStatusPayed), pending, cutoff)
}
