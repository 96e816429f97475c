package repository

import (
	"context"
	"time"

	"github.com/spsina/bookStore/internal/domain/model"
)

type ItemRepository interface {
	Create(ctx context.Context, it *model.Item) error
	ListByBasketID(ctx context.Context, basketID int64) ([]model.Item, error)

	// SoldCount sums the item counts of bookID that hold stock at now:
	// PAYED invoices, plus CREATED / IN_PAYMENT invoices tried since
	// now - window.
	SoldCount(ctx context.Context, bookID int64, now time.Time, window time.Duration) (int64, error)
	// SoldCounts is SoldCount for a set of books.
	SoldCounts(ctx context.Context, bookIDs []int64, now time.Time, window time.Duration) (map[int64]int64, error)
}
