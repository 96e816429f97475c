package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/domain/model"
)

const (
	EventBasketCreated    = "basket.created"
	EventInvoiceInPayment = "invoice.in_payment"
	EventInvoicePayed     = "invoice.payed"
	EventInvoiceRejected  = "invoice.rejected"
)

// InvoiceEvent is published after the transaction that caused it commits.
type InvoiceEvent struct {
	Type               string    `json:"type"`
	InvoiceInternalID  string    `json:"invoice_internal_id"`
	BasketID           int64     `json:"basket_id"`
	UserProfileID      int64     `json:"user_profile_id"`
	Status             string    `json:"status"`
	Amount             int64     `json:"amount"`
	TotalPayableAmount int64     `json:"total_payable_amount"`
	OccurredAt         time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, ev InvoiceEvent) error
}

func newInvoiceEvent(typ string, b model.Basket, inv model.Invoice, now time.Time) InvoiceEvent {
	return InvoiceEvent{
		Type:               typ,
		InvoiceInternalID:  inv.InternalID,
		BasketID:           b.ID,
		UserProfileID:      b.UserProfileID,
		Status:             string(inv.Status),
		Amount:             inv.Amount,
		TotalPayableAmount: inv.TotalPayableAmount(),
		OccurredAt:         now,
	}
}

// publish never fails the caller: the state change is already committed.
func publish(ctx context.Context, pub EventPublisher, logger *zap.Logger, ev InvoiceEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		logger.Error("publish event failed",
			zap.String("type", ev.Type),
			zap.String("invoice", ev.InvoiceInternalID),
			zap.Error(err),
		)
	}
}
