package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/spsina/bookStore/internal/domain/model"
	"github.com/spsina/bookStore/internal/infra/db/dbtest"
	infraRepo "github.com/spsina/bookStore/internal/infra/repository"
	"github.com/spsina/bookStore/internal/usecase"
)

const testDeliveryFee int64 = 5000

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// =====================
// clock / ids
// =====================

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

// =====================
// mocks
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) Prepare(ctx context.Context, amount int64, callbackURL string) (string, error) {
	args := m.Called(ctx, amount, callbackURL)
	return args.String(0), args.Error(1)
}

func (m *GatewayMock) Verify(ctx context.Context, token string) (usecase.GatewayVerifyResult, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(usecase.GatewayVerifyResult)
	return res, args.Error(1)
}

func (m *GatewayMock) RedirectURL(token string) string {
	return "https://ipg.test/v3/" + token
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, ev usecase.InvoiceEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// Types returns the event types published so far, in order.
func (m *PublisherMock) Types() []string {
	var out []string
	for _, c := range m.Calls {
		if c.Method == "Publish" {
			out = append(out, c.Arguments.Get(1).(usecase.InvoiceEvent).Type)
		}
	}
	return out
}

func newPublisher() *PublisherMock {
	p := &PublisherMock{}
	p.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return p
}

// =====================
// fixture
// =====================

type fixture struct {
	db     *gorm.DB
	clock  *testClock
	pub    *PublisherMock
	ledger *usecase.StockLedger
	books  *infraRepo.BookGormRepository
	items  *infraRepo.ItemGormRepository
	basket *usecase.BasketUsecase
	tx     *infraRepo.TxManagerGorm
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	clock := &testClock{now: t0}
	pub := newPublisher()
	ledger := usecase.NewStockLedger(clock)
	books := infraRepo.NewBookGormRepository(db)
	items := infraRepo.NewItemGormRepository(db)
	tx := infraRepo.NewTxManagerGorm(db)
	require.NoError(t, infraRepo.NewSiteConfigGormRepository(db).SetDeliveryFee(context.Background(), testDeliveryFee))

	return &fixture{
		db:     db,
		clock:  clock,
		pub:    pub,
		ledger: ledger,
		books:  books,
		items:  items,
		tx:     tx,
		basket: usecase.NewBasketUsecase(tx, books, infraRepo.NewBasketGormRepository(db), ledger, uuidGen{}, clock, pub, zap.NewNop()),
	}
}

func (f *fixture) seedBook(t *testing.T, title string, price int64, discount string, count int64) model.Book {
	t.Helper()
	b := model.Book{Title: title, Price: price, Discount: decimal.RequireFromString(discount), Count: count}
	require.NoError(t, f.books.Create(context.Background(), &b))
	return b
}

func (f *fixture) remaining(t *testing.T, b model.Book) int64 {
	t.Helper()
	lvl, err := f.ledger.Level(context.Background(), f.items, b)
	require.NoError(t, err)
	return lvl.Remaining
}

func (f *fixture) setInvoiceStatus(t *testing.T, internalID string, status model.InvoiceStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.Invoice{}).Where("internal_id = ?", internalID).Update("status", status).Error)
}

func (f *fixture) setLastTry(t *testing.T, internalID string, at time.Time) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.Invoice{}).Where("internal_id = ?", internalID).Update("last_try_datetime", at).Error)
}

func (f *fixture) invoice(t *testing.T, internalID string) model.Invoice {
	t.Helper()
	var inv model.Invoice
	require.NoError(t, f.db.Where("internal_id = ?", internalID).First(&inv).Error)
	return inv
}

func line(bookID, count int64) usecase.BasketItemInput {
	return usecase.BasketItemInput{BookID: bookID, Count: count}
}

func requireHTTPError(t *testing.T, err error, status int) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "want HTTPError, got %v", err)
	require.Equal(t, status, he.Status, he.Message)
	return he
}
