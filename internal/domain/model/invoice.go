package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceStatusCreated   InvoiceStatus = "CREATED"
	InvoiceStatusInPayment InvoiceStatus = "IN_PAYMENT"
	InvoiceStatusPayed     InvoiceStatus = "PAYED"
	InvoiceStatusRejected  InvoiceStatus = "REJECTED"
)

var ErrInvalidTransition = errors.New("invalid invoice transition")

type Invoice struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	InternalID  string        `gorm:"type:varchar(36);not null;uniqueIndex" json:"internal_id"`
	Amount      int64         `gorm:"not null" json:"amount"`
	DeliveryFee int64         `gorm:"not null;default:0" json:"delivery_fee"`
	Status      InvoiceStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	PaymentToken    *string        `gorm:"type:varchar(255)" json:"payment_token"`
	TransID         *string        `gorm:"type:varchar(64)" json:"trans_id"`
	CardNumber      *string        `gorm:"type:varchar(32)" json:"card_number"`
	RefNumber       *string        `gorm:"type:varchar(64)" json:"ref_number"`
	TracingCode     *string        `gorm:"type:varchar(64)" json:"tracing_code"`
	CID             *string        `gorm:"column:cid;type:varchar(128)" json:"cid"`
	PaymentDate     *string        `gorm:"type:varchar(32)" json:"payment_date"`
	GatewayResponse datatypes.JSON `json:"gateway_response,omitempty"`

	CreateDatetime  time.Time `gorm:"not null;<-:create" json:"create_datetime"`
	LastTryDatetime time.Time `gorm:"not null;index" json:"last_try_datetime"`
}

func (i Invoice) TotalPayableAmount() int64 {
	return i.Amount + i.DeliveryFee
}

// PaymentResult carries what the gateway reports for a successful payment.
type PaymentResult struct {
	TransID     string
	CardNumber  string
	RefNumber   string
	TracingCode string
	CID         string
	PaymentDate string
	Raw         []byte
}

// MarkInPayment moves a CREATED invoice into IN_PAYMENT and restarts the
// expiry clock.
func (i *Invoice) MarkInPayment(token string, now time.Time) error {
	if i.Status != InvoiceStatusCreated {
		return ErrInvalidTransition
	}
	i.PaymentToken = &token
	i.LastTryDatetime = now
	i.Status = InvoiceStatusInPayment
	return nil
}

func (i *Invoice) MarkPayed(res PaymentResult) error {
	if i.Status != InvoiceStatusInPayment {
		return ErrInvalidTransition
	}
	i.TransID = optional(res.TransID)
	i.CardNumber = optional(res.CardNumber)
	i.RefNumber = optional(res.RefNumber)
	i.TracingCode = optional(res.TracingCode)
	i.CID = optional(res.CID)
	i.PaymentDate = optional(res.PaymentDate)
	if len(res.Raw) > 0 {
		i.GatewayResponse = datatypes.JSON(res.Raw)
	}
	i.Status = InvoiceStatusPayed
	return nil
}

func (i *Invoice) MarkRejected(raw []byte) error {
	if i.Status != InvoiceStatusInPayment {
		return ErrInvalidTransition
	}
	if len(raw) > 0 {
		i.GatewayResponse = datatypes.JSON(raw)
	}
	i.Status = InvoiceStatusRejected
	return nil
}

// IsTerminal reports PAYED or REJECTED.
func (i Invoice) IsTerminal() bool {
	return i.Status == InvoiceStatusPayed || i.Status == InvoiceStatusRejected
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
