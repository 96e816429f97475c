package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"
)

// BookUsecase serves the read-only catalog. Stock figures are advisory:
// they are read without locks.
type BookUsecase struct {
	books  repo.BookRepository
	items  repo.ItemRepository
	ledger *StockLedger
}

func NewBookUsecase(books repo.BookRepository, items repo.ItemRepository, ledger *StockLedger) *BookUsecase {
	return &BookUsecase{books: books, items: items, ledger: ledger}
}

type BookOutput struct {
	ID          int64           `json:"pk"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ISBN        string          `json:"isbn"`
	Price       int64           `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	FinalPrice  int64           `json:"final_price"`
	Count       int64           `json:"count"`
	Sold        int64           `json:"sold"`
	Remaining   int64           `json:"remaining"`
	IsDelete    bool            `json:"is_delete"`
}

func (u *BookUsecase) List(ctx context.Context) ([]BookOutput, error) {
	books, err := u.books.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	levels, err := u.ledger.Levels(ctx, u.items, books)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]BookOutput, 0, len(books))
	for _, b := range books {
		outs = append(outs, toBookOutput(b, levels[b.ID]))
	}
	return outs, nil
}

func (u *BookUsecase) Get(ctx context.Context, id int64) (BookOutput, error) {
	if id <= 0 {
		return BookOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	b, err := u.books.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return BookOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return BookOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	level, err := u.ledger.Level(ctx, u.items, b)
	if err != nil {
		return BookOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toBookOutput(b, level), nil
}

func toBookOutput(b model.Book, level StockLevel) BookOutput {
	return BookOutput{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		ISBN:        b.ISBN,
		Price:       b.Price,
		Discount:    b.Discount,
		FinalPrice:  b.FinalPrice(),
		Count:       b.Count,
		Sold:        level.Sold,
		Remaining:   level.Remaining,
		IsDelete:    b.IsDelete,
	}
}
