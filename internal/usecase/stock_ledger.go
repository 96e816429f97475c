package usecase

import (
	"context"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"
)

// StockLevel is a book's derived stock at one instant.
type StockLevel struct {
	Count     int64
	Sold      int64
	Remaining int64
}

// StockLedger derives sold and remaining stock from line items and their
// invoices. Nothing is stored, so lapsed reservations free themselves.
//
// The item repository is passed per call: a transaction's repository for
// reservation decisions, the plain one for advisory reads.
type StockLedger struct {
	clock Clock
}

func NewStockLedger(clock Clock) *StockLedger {
	return &StockLedger{clock: clock}
}

func (l *StockLedger) Level(ctx context.Context, items repo.ItemRepository, book model.Book) (StockLevel, error) {
	sold, err := items.SoldCount(ctx, book.ID, l.clock.Now(), model.BufferWindow)
	if err != nil {
		return StockLevel{}, err
	}
	return StockLevel{Count: book.Count, Sold: sold, Remaining: book.Count - sold}, nil
}

func (l *StockLedger) Levels(ctx context.Context, items repo.ItemRepository, books []model.Book) (map[int64]StockLevel, error) {
	ids := make([]int64, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}

	sold, err := items.SoldCounts(ctx, ids, l.clock.Now(), model.BufferWindow)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]StockLevel, len(books))
	for _, b := range books {
		s := sold[b.ID]
		out[b.ID] = StockLevel{Count: b.Count, Sold: s, Remaining: b.Count - s}
	}
	return out, nil
}
