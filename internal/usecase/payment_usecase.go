package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"
)

type PaymentUsecase struct {
	tx      repo.TransactionManager
	gateway PaymentGateway
	clock   Clock
	events  EventPublisher
	logger  *zap.Logger
}

func NewPaymentUsecase(tx repo.TransactionManager, gateway PaymentGateway, clock Clock, events EventPublisher, logger *zap.Logger) *PaymentUsecase {
	return &PaymentUsecase{
		tx:      tx,
		gateway: gateway,
		clock:   clock,
		events:  events,
		logger:  logger,
	}
}

type MakePaymentOutput struct {
	RedirectTo string `json:"redirect_to"`
}

// InvoiceDetail is the full invoice as shown after verification.
type InvoiceDetail struct {
	ID                 int64           `json:"pk"`
	InternalID         string          `json:"internal_id"`
	Amount             int64           `json:"amount"`
	DeliveryFee        int64           `json:"delivery_fee"`
	TotalPayableAmount int64           `json:"total_payable_amount"`
	Status             string          `json:"status"`
	PaymentToken       *string         `json:"payment_token"`
	TransID            *string         `json:"trans_id"`
	CardNumber         *string         `json:"card_number"`
	RefNumber          *string         `json:"ref_number"`
	TracingCode        *string         `json:"tracing_code"`
	CID                *string         `json:"cid"`
	PaymentDate        *string         `json:"payment_date"`
	GatewayResponse    json.RawMessage `json:"gateway_response,omitempty"`
	CreateDatetime     time.Time       `json:"create_datetime"`
	LastTryDatetime    time.Time       `json:"last_try_datetime"`
}

type VerifyPaymentOutput struct {
	Invoice InvoiceDetail
	Payed   bool
}

// MakePayment opens a gateway session for the invoice and moves it to
// IN_PAYMENT. The invoice row stays locked until the gateway answers.
func (u *PaymentUsecase) MakePayment(ctx context.Context, internalID string, callbackURL string) (MakePaymentOutput, error) {
	if _, err := uuid.Parse(internalID); err != nil {
		return MakePaymentOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	var (
		out    MakePaymentOutput
		basket model.Basket
		inv    model.Invoice
		issued string
	)
	now := u.clock.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		basket, inv, err = u.lockInvoice(ctx, r, internalID)
		if err != nil {
			return err
		}

		if !basket.IsValidForPayment(now) {
			return NewHTTPError(http.StatusBadRequest, "invalid basket")
		}

		token, err := u.gateway.Prepare(ctx, inv.TotalPayableAmount(), callbackURL)
		if err != nil {
			return u.gatewayError(inv, "prepare", err)
		}
		issued = token

		before := auditSnapshot(inv)
		if err := inv.MarkInPayment(token, now); err != nil {
			return NewHTTPError(http.StatusBadRequest, "invalid basket")
		}
		if err := r.Invoices().Save(ctx, &inv); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := writeAudit(ctx, r, model.AuditActionPreparePayment, inv, before, now); err != nil {
			return err
		}

		out.RedirectTo = u.gateway.RedirectURL(token)
		return nil
	})
	if err != nil {
		if issued != "" {
			// the provider session exists but the invoice rolled back to CREATED
			u.logger.Error("gateway token orphaned",
				zap.String("invoice", internalID),
				zap.String("payment_token", issued),
				zap.Error(err),
			)
		}
		return MakePaymentOutput{}, err
	}

	publish(ctx, u.events, u.logger, newInvoiceEvent(EventInvoiceInPayment, basket, inv, now))
	return out, nil
}

// VerifyPayment asks the gateway about the invoice's token and resolves it
// to PAYED or REJECTED. Invoices that cannot be verified are returned as
// they are, with Payed false.
func (u *PaymentUsecase) VerifyPayment(ctx context.Context, internalID string) (VerifyPaymentOutput, error) {
	if _, err := uuid.Parse(internalID); err != nil {
		return VerifyPaymentOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	var (
		basket   model.Basket
		inv      model.Invoice
		resolved bool
	)
	now := u.clock.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		basket, inv, err = u.lockInvoice(ctx, r, internalID)
		if err != nil {
			return err
		}

		if inv.IsTerminal() {
			return nil
		}
		// a CREATED invoice has no token yet
		if !basket.IsValidForVerification(now) || inv.PaymentToken == nil || *inv.PaymentToken == "" {
			return nil
		}

		res, err := u.gateway.Verify(ctx, *inv.PaymentToken)
		if err != nil {
			return u.gatewayError(inv, "verify", err)
		}

		before := auditSnapshot(inv)
		if res.Success {
			err = inv.MarkPayed(res.Payment)
		} else {
			u.logger.Info("payment not verified",
				zap.String("invoice", inv.InternalID),
				zap.Int("gateway_status", res.Status),
				zap.Strings("messages", res.Messages),
			)
			err = inv.MarkRejected(res.Payment.Raw)
		}
		if err != nil {
			// still CREATED with a token: nothing to resolve
			return nil
		}

		if err := r.Invoices().Save(ctx, &inv); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := writeAudit(ctx, r, model.AuditActionVerifyPayment, inv, before, now); err != nil {
			return err
		}
		resolved = true
		return nil
	})
	if err != nil {
		return VerifyPaymentOutput{}, err
	}

	if resolved {
		typ := EventInvoiceRejected
		if inv.Status == model.InvoiceStatusPayed {
			typ = EventInvoicePayed
		}
		publish(ctx, u.events, u.logger, newInvoiceEvent(typ, basket, inv, now))
	}

	return VerifyPaymentOutput{
		Invoice: toInvoiceDetail(inv),
		Payed:   inv.Status == model.InvoiceStatusPayed,
	}, nil
}

func (u *PaymentUsecase) lockInvoice(ctx context.Context, r repo.TxRepos, internalID string) (model.Basket, model.Invoice, error) {
	inv, err := r.Invoices().FindByInternalIDForUpdate(ctx, internalID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Basket{}, model.Invoice{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Basket{}, model.Invoice{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	basket, err := r.Baskets().FindByInvoiceID(ctx, inv.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Basket{}, model.Invoice{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Basket{}, model.Invoice{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	// the locked row wins over the preloaded copy
	basket.Invoice = inv
	return basket, inv, nil
}

func (u *PaymentUsecase) gatewayError(inv model.Invoice, op string, err error) error {
	u.logger.Warn("payment gateway call failed",
		zap.String("op", op),
		zap.String("invoice", inv.InternalID),
		zap.Error(err),
	)

	var rejected *GatewayRejectedError
	if errors.As(err, &rejected) {
		return &HTTPError{
			Status:  http.StatusServiceUnavailable,
			Message: "payment gateway rejected the request",
			Details: map[string]any{"gateway": rejected.Messages},
		}
	}
	return NewHTTPError(http.StatusServiceUnavailable, "payment gateway unavailable")
}

type invoiceAuditState struct {
	Status          string    `json:"status"`
	PaymentToken    *string   `json:"payment_token,omitempty"`
	TransID         *string   `json:"trans_id,omitempty"`
	LastTryDatetime time.Time `json:"last_try_datetime"`
}

func auditSnapshot(inv model.Invoice) string {
	b, _ := json.Marshal(invoiceAuditState{
		Status:          string(inv.Status),
		PaymentToken:    inv.PaymentToken,
		TransID:         inv.TransID,
		LastTryDatetime: inv.LastTryDatetime,
	})
	return string(b)
}

func writeAudit(ctx context.Context, r repo.TxRepos, action model.AuditAction, inv model.Invoice, before string, now time.Time) error {
	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		Action:       action,
		ResourceType: model.AuditResourceInvoice,
		ResourceID:   inv.ID,
		BeforeJSON:   before,
		AfterJSON:    auditSnapshot(inv),
		CreatedAt:    now,
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toInvoiceDetail(inv model.Invoice) InvoiceDetail {
	var raw json.RawMessage
	if len(inv.GatewayResponse) > 0 {
		raw = json.RawMessage(inv.GatewayResponse)
	}
	return InvoiceDetail{
		ID:                 inv.ID,
		InternalID:         inv.InternalID,
		Amount:             inv.Amount,
		DeliveryFee:        inv.DeliveryFee,
		TotalPayableAmount: inv.TotalPayableAmount(),
		Status:             string(inv.Status),
		PaymentToken:       inv.PaymentToken,
		TransID:            inv.TransID,
		CardNumber:         inv.CardNumber,
		RefNumber:          inv.RefNumber,
		TracingCode:        inv.TracingCode,
		CID:                inv.CID,
		PaymentDate:        inv.PaymentDate,
		GatewayResponse:    raw,
		CreateDatetime:     inv.CreateDatetime,
		LastTryDatetime:    inv.LastTryDatetime,
	}
}
