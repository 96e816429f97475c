package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"
)

const maxDescriptionLen = 1024

var errMinOrderAmount = fmt.Sprintf("Min order amount is %d Toman", model.MinOrderAmount)

type BasketUsecase struct {
	tx      repo.TransactionManager
	books   repo.BookRepository
	baskets repo.BasketRepository
	ledger  *StockLedger
	idGen   IDGenerator
	clock   Clock
	events  EventPublisher
	logger  *zap.Logger
}

func NewBasketUsecase(
	tx repo.TransactionManager,
	books repo.BookRepository,
	baskets repo.BasketRepository,
	ledger *StockLedger,
	idGen IDGenerator,
	clock Clock,
	events EventPublisher,
	logger *zap.Logger,
) *BasketUsecase {
	return &BasketUsecase{
		tx:      tx,
		books:   books,
		baskets: baskets,
		ledger:  ledger,
		idGen:   idGen,
		clock:   clock,
		events:  events,
		logger:  logger,
	}
}

type BasketItemInput struct {
	BookID int64
	Count  int64
}

type CreateBasketInput struct {
	Items       []BasketItemInput
	IsGift      bool
	Description string
}

type ItemOutput struct {
	ID         int64           `json:"pk"`
	Book       int64           `json:"book"`
	Count      int64           `json:"count"`
	Price      int64           `json:"price"`
	Discount   decimal.Decimal `json:"discount"`
	FinalPrice int64           `json:"final_price"`
	Subtotal   int64           `json:"subtotal"`
}

type InvoiceSummary struct {
	ID                 int64  `json:"pk"`
	InternalID         string `json:"internal_id"`
	Amount             int64  `json:"amount"`
	DeliveryFee        int64  `json:"delivery_fee"`
	TotalPayableAmount int64  `json:"total_payable_amount"`
	Status             string `json:"status"`
}

type BasketOutput struct {
	ID          int64          `json:"pk"`
	Items       []ItemOutput   `json:"items"`
	Invoice     InvoiceSummary `json:"invoice"`
	Subtotal    int64          `json:"subtotal"`
	IsGift      bool           `json:"is_gift"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateBasket reserves stock and creates the invoice, basket and items in
// one transaction. Capacity and minimum amount problems are all collected
// and returned together; nothing is kept when any is found.
func (u *BasketUsecase) CreateBasket(ctx context.Context, userProfileID int64, in CreateBasketInput) (BasketOutput, error) {
	if userProfileID <= 0 {
		return BasketOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return BasketOutput{}, NewValidationError("items", "This list may not be empty.")
	}
	if len(in.Description) > maxDescriptionLen {
		return BasketOutput{}, NewValidationError("description", fmt.Sprintf("Ensure this field has no more than %d characters.", maxDescriptionLen))
	}

	counts, order, err := mergeLines(in.Items)
	if err != nil {
		return BasketOutput{}, err
	}

	books, err := u.books.FindByIDs(ctx, order)
	if err != nil {
		return BasketOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, id := range order {
		if _, ok := books[id]; !ok {
			return BasketOutput{}, NewHTTPError(http.StatusNotFound, fmt.Sprintf("book %d not found", id))
		}
	}

	// estimate from current prices, before any lock
	var estimate int64
	for _, id := range order {
		estimate += books[id].FinalPrice() * counts[id]
	}

	now := u.clock.Now()
	var created model.Basket

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		fee, err := r.SiteConfig().DeliveryFee(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// amount is finalized once every item is attached
		inv := model.Invoice{
			InternalID:      u.idGen.NewID(),
			Amount:          0,
			DeliveryFee:     fee,
			Status:          model.InvoiceStatusCreated,
			CreateDatetime:  now,
			LastTryDatetime: now,
		}
		if err := r.Invoices().Create(ctx, &inv); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		basket := model.Basket{
			UserProfileID: userProfileID,
			InvoiceID:     inv.ID,
			Status:        model.BasketStatusPending,
			IsGift:        in.IsGift,
			Description:   strings.TrimSpace(in.Description),
			CreatedAt:     now,
		}
		if err := r.Baskets().Create(ctx, &basket); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// ascending id order, so two baskets never wait on each other in a cycle
		lockOrder := slices.Clone(order)
		slices.Sort(lockOrder)

		items := make(map[int64]model.Item, len(order))
		underflow := make(map[int64]string)

		for _, id := range lockOrder {
			book, err := r.Books().FindByIDForUpdate(ctx, id)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, fmt.Sprintf("book %d not found", id))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			level, err := u.ledger.Level(ctx, r.Items(), book)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if level.Remaining < counts[id] {
				underflow[id] = fmt.Sprintf("Book %d - %s underflow", book.ID, book.Title)
				continue
			}

			it := model.Item{
				BasketID: basket.ID,
				BookID:   book.ID,
				Count:    counts[id],
				Price:    book.Price,
				Discount: book.Discount,
			}
			if err := r.Items().Create(ctx, &it); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			items[id] = it
		}

		// report in request order
		var problems []string
		for _, id := range order {
			if msg, ok := underflow[id]; ok {
				problems = append(problems, msg)
			}
		}
		if estimate < model.MinOrderAmount {
			problems = append(problems, errMinOrderAmount)
		}
		if len(problems) > 0 {
			return NewValidationError("items", problems...)
		}

		basket.Items = make([]model.Item, 0, len(order))
		for _, id := range order {
			basket.Items = append(basket.Items, items[id])
		}

		inv.Amount = basket.Subtotal()
		if err := r.Invoices().UpdateAmount(ctx, inv.ID, inv.Amount); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		basket.Invoice = inv

		created = basket
		return nil
	})
	if err != nil {
		return BasketOutput{}, err
	}

	publish(ctx, u.events, u.logger, newInvoiceEvent(EventBasketCreated, created, created.Invoice, now))

	return toBasketOutput(created), nil
}

// GetBasket returns a basket of its owner. Other users get 404.
func (u *BasketUsecase) GetBasket(ctx context.Context, userProfileID int64, basketID int64) (BasketOutput, error) {
	if userProfileID <= 0 {
		return BasketOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if basketID <= 0 {
		return BasketOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	b, err := u.baskets.FindByID(ctx, basketID)
	if errors.Is(err, repo.ErrNotFound) {
		return BasketOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return BasketOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if b.UserProfileID != userProfileID {
		return BasketOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return toBasketOutput(b), nil
}

// mergeLines sums counts of repeated books and keeps first-seen order.
func mergeLines(lines []BasketItemInput) (map[int64]int64, []int64, error) {
	counts := make(map[int64]int64, len(lines))
	order := make([]int64, 0, len(lines))

	for i, l := range lines {
		if l.BookID <= 0 {
			return nil, nil, NewValidationError(fmt.Sprintf("items[%d].book", i), "This field is required.")
		}
		if l.Count < 1 {
			return nil, nil, NewValidationError(fmt.Sprintf("items[%d].count", i), "Ensure this value is greater than or equal to 1.")
		}
		if _, seen := counts[l.BookID]; !seen {
			order = append(order, l.BookID)
		}
		counts[l.BookID] += l.Count
	}
	return counts, order, nil
}

func toInvoiceSummary(inv model.Invoice) InvoiceSummary {
	return InvoiceSummary{
		ID:                 inv.ID,
		InternalID:         inv.InternalID,
		Amount:             inv.Amount,
		DeliveryFee:        inv.DeliveryFee,
		TotalPayableAmount: inv.TotalPayableAmount(),
		Status:             string(inv.Status),
	}
}

func toBasketOutput(b model.Basket) BasketOutput {
	items := make([]ItemOutput, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, ItemOutput{
			ID:         it.ID,
			Book:       it.BookID,
			Count:      it.Count,
			Price:      it.Price,
			Discount:   it.Discount,
			FinalPrice: it.FinalPrice(),
			Subtotal:   it.Subtotal(),
		})
	}

	return BasketOutput{
		ID:          b.ID,
		Items:       items,
		Invoice:     toInvoiceSummary(b.Invoice),
		Subtotal:    b.Subtotal(),
		IsGift:      b.IsGift,
		Description: b.Description,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}
