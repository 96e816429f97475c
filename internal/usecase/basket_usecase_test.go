package usecase_test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spsina/bookStore/internal/domain/model"
	infraRepo "github.com/spsina/bookStore/internal/infra/repository"
	"github.com/spsina/bookStore/internal/usecase"
)

func TestCreateBasket_ReservesStockAndFinalizesAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b1 := f.seedBook(t, "b1", 10000, "0", 3)
	b2 := f.seedBook(t, "b2", 15000, "0.2", 2)

	out, err := f.basket.CreateBasket(ctx, 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b1.ID, 1), line(b2.ID, 2)},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(34000), out.Subtotal)
	assert.Equal(t, int64(34000), out.Invoice.Amount)
	assert.Equal(t, testDeliveryFee, out.Invoice.DeliveryFee)
	assert.Equal(t, int64(39000), out.Invoice.TotalPayableAmount)
	assert.Equal(t, string(model.InvoiceStatusCreated), out.Invoice.Status)
	assert.Equal(t, string(model.BasketStatusPending), out.Status)
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(12000), out.Items[1].FinalPrice)
	assert.Equal(t, int64(24000), out.Items[1].Subtotal)

	inv := f.invoice(t, out.Invoice.InternalID)
	assert.Equal(t, int64(34000), inv.Amount)
	assert.True(t, inv.CreateDatetime.Equal(t0))
	assert.True(t, inv.LastTryDatetime.Equal(t0))

	assert.Equal(t, int64(2), f.remaining(t, b1))
	assert.Equal(t, int64(0), f.remaining(t, b2))

	assert.Equal(t, []string{usecase.EventBasketCreated}, f.pub.Types())
}

func TestCreateBasket_SnapshotsDeliveryFee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.seedBook(t, "b", 10000, "0", 10)
	first, err := f.basket.CreateBasket(ctx, 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b.ID, 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, testDeliveryFee, first.Invoice.DeliveryFee)

	require.NoError(t, infraRepo.NewSiteConfigGormRepository(f.db).SetDeliveryFee(ctx, 9999))

	old := f.invoice(t, first.Invoice.InternalID)
	assert.Equal(t, testDeliveryFee, old.DeliveryFee)
	assert.Equal(t, int64(10000)+testDeliveryFee, old.TotalPayableAmount())

	second, err := f.basket.CreateBasket(ctx, 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b.ID, 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9999), second.Invoice.DeliveryFee)
	assert.Equal(t, int64(19999), second.Invoice.TotalPayableAmount)
}

func TestCreateBasket_MissingSiteConfigFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Where("1 = 1").Delete(&model.SiteConfig{}).Error)

	b := f.seedBook(t, "b", 10000, "0", 10)
	_, err := f.basket.CreateBasket(ctx, 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b.ID, 1)},
	})
	requireHTTPError(t, err, http.StatusInternalServerError)

	var rows int64
	require.NoError(t, f.db.Model(&model.SiteConfig{}).Count(&rows).Error)
	assert.Equal(t, int64(0), rows, "reading the fee must not create the row")
	assert.Equal(t, int64(10), f.remaining(t, b))
}

func TestCreateBasket_UnderflowRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b1 := f.seedBook(t, "b1", 10000, "0", 3)
	b2 := f.seedBook(t, "b2", 15000, "0.2", 2)

	_, err := f.basket.CreateBasket(ctx, 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b1.ID, 1), line(b2.ID, 2)},
	})
	require.NoError(t, err)

	_, err = f.basket.CreateBasket(ctx, 8, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b1.ID, 3), line(b2.ID, 2)},
	})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"Book 1 - b1 underflow", "Book 2 - b2 underflow"}, he.Details["items"])

	// b1 would fit on its own; the whole basket is still refused
	_, err = f.basket.CreateBasket(ctx, 8, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b1.ID, 2), line(b2.ID, 2)},
	})
	he = requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"Book 2 - b2 underflow"}, he.Details["items"])

	assert.Equal(t, int64(2), f.remaining(t, b1))
	assert.Equal(t, int64(0), f.remaining(t, b2))

	var baskets, invoices int64
	require.NoError(t, f.db.Model(&model.Basket{}).Count(&baskets).Error)
	require.NoError(t, f.db.Model(&model.Invoice{}).Count(&invoices).Error)
	assert.Equal(t, int64(1), baskets)
	assert.Equal(t, int64(1), invoices)

	assert.Equal(t, []string{usecase.EventBasketCreated}, f.pub.Types())
}

func TestCreateBasket_RejectedInvoiceReleasesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b1 := f.seedBook(t, "b1", 10000, "0", 3)
	b2 := f.seedBook(t, "b2", 15000, "0.2", 2)

	out, err := f.basket.CreateBasket(ctx, 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b1.ID, 1), line(b2.ID, 2)},
	})
	require.NoError(t, err)

	f.setInvoiceStatus(t, out.Invoice.InternalID, model.InvoiceStatusRejected)

	assert.Equal(t, int64(3), f.remaining(t, b1))
	assert.Equal(t, int64(2), f.remaining(t, b2))

	var book model.Book
	require.NoError(t, f.db.First(&book, b1.ID).Error)
	assert.Equal(t, int64(3), book.Count)
}

func TestCreateBasket_ReservationLapsesAfterWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.seedBook(t, "b", 2000, "0", 5)

	_, err := f.basket.CreateBasket(ctx, 7, usecase.CreateBasketInput{Items: []usecase.BasketItemInput{line(b.ID, 4)}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.remaining(t, b))

	f.clock.Advance(model.BufferWindow)
	assert.Equal(t, int64(1), f.remaining(t, b), "the window edge still holds stock")

	f.clock.Advance(time.Second)
	assert.Equal(t, int64(5), f.remaining(t, b))

	_, err = f.basket.CreateBasket(ctx, 8, usecase.CreateBasketInput{Items: []usecase.BasketItemInput{line(b.ID, 5)}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.remaining(t, b))
}

func TestCreateBasket_MinOrderAmount(t *testing.T) {
	f := newFixture(t)

	cheap := f.seedBook(t, "cheap", 999, "0.5", 10)

	_, err := f.basket.CreateBasket(context.Background(), 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(cheap.ID, 1)},
	})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"Min order amount is 1000 Toman"}, he.Details["items"])
	assert.Equal(t, int64(10), f.remaining(t, cheap))
}

func TestCreateBasket_MinOrderAmountListedAfterUnderflow(t *testing.T) {
	f := newFixture(t)

	b := f.seedBook(t, "scarce", 300, "0", 1)

	_, err := f.basket.CreateBasket(context.Background(), 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b.ID, 2)},
	})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, []string{"Book 1 - scarce underflow", "Min order amount is 1000 Toman"}, he.Details["items"])
}

func TestCreateBasket_MergesDuplicateBooks(t *testing.T) {
	f := newFixture(t)

	b := f.seedBook(t, "b", 1000, "0", 3)

	out, err := f.basket.CreateBasket(context.Background(), 7, usecase.CreateBasketInput{
		Items: []usecase.BasketItemInput{line(b.ID, 1), line(b.ID, 2)},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(3), out.Items[0].Count)
	assert.Equal(t, int64(0), f.remaining(t, b))
}

func TestCreateBasket_InputErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.seedBook(t, "b", 5000, "0", 3)
	deleted := f.seedBook(t, "gone", 5000, "0", 3)
	require.NoError(t, f.db.Model(&model.Book{}).Where("id = ?", deleted.ID).Update("is_delete", true).Error)

	cases := []struct {
		name   string
		user   int64
		in     usecase.CreateBasketInput
		status int
	}{
		{"no user", 0, usecase.CreateBasketInput{Items: []usecase.BasketItemInput{line(b.ID, 1)}}, http.StatusUnauthorized},
		{"empty", 7, usecase.CreateBasketInput{}, http.StatusBadRequest},
		{"zero count", 7, usecase.CreateBasketInput{Items: []usecase.BasketItemInput{line(b.ID, 0)}}, http.StatusBadRequest},
		{"unknown book", 7, usecase.CreateBasketInput{Items: []usecase.BasketItemInput{line(999, 1)}}, http.StatusNotFound},
		{"deleted book", 7, usecase.CreateBasketInput{Items: []usecase.BasketItemInput{line(deleted.ID, 1)}}, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.basket.CreateBasket(ctx, tc.user, tc.in)
			requireHTTPError(t, err, tc.status)
		})
	}

	var invoices int64
	require.NoError(t, f.db.Model(&model.Invoice{}).Count(&invoices).Error)
	assert.Zero(t, invoices)
}

func TestCreateBasket_ConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)

	const capacity = 5
	b := f.seedBook(t, "hot", 1000, "0", capacity)

	var (
		wg       sync.WaitGroup
		reserved atomic.Int64
		refused  atomic.Int64
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			_, err := f.basket.CreateBasket(context.Background(), user, usecase.CreateBasketInput{
				Items: []usecase.BasketItemInput{line(b.ID, 1)},
			})
			if err != nil {
				he, ok := usecase.AsHTTPError(err)
				if assert.True(t, ok) {
					assert.Equal(t, http.StatusBadRequest, he.Status)
				}
				refused.Add(1)
				return
			}
			reserved.Add(1)
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int64(capacity), reserved.Load())
	assert.Equal(t, int64(12-capacity), refused.Load())
	assert.Equal(t, int64(0), f.remaining(t, b))
}

func TestGetBasket_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.seedBook(t, "b", 5000, "0", 3)
	created, err := f.basket.CreateBasket(ctx, 7, usecase.CreateBasketInput{
		Items:       []usecase.BasketItemInput{line(b.ID, 1)},
		IsGift:      true,
		Description: "  wrap it  ",
	})
	require.NoError(t, err)

	got, err := f.basket.GetBasket(ctx, 7, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.IsGift)
	assert.Equal(t, "wrap it", got.Description)
	assert.Equal(t, created.Invoice.InternalID, got.Invoice.InternalID)
	assert.Equal(t, int64(5000), got.Invoice.Amount)
	require.Len(t, got.Items, 1)

	_, err = f.basket.GetBasket(ctx, 8, created.ID)
	requireHTTPError(t, err, http.StatusNotFound)

	_, err = f.basket.GetBasket(ctx, 7, 12345)
	requireHTTPError(t, err, http.StatusNotFound)
}
