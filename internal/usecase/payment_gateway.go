package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/spsina/bookStore/internal/domain/model"
)

var (
	// ErrGatewayUnavailable covers transport failures, 5xx replies and an
	// open circuit breaker. Nothing about the payment is known.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrGatewayRejected is a definitive refusal from the provider.
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
)

// GatewayRejectedError carries the provider's messages and matches
// ErrGatewayRejected.
type GatewayRejectedError struct {
	Messages []string
}

func (e *GatewayRejectedError) Error() string {
	if len(e.Messages) == 0 {
		return ErrGatewayRejected.Error()
	}
	return ErrGatewayRejected.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *GatewayRejectedError) Is(target error) bool {
	return target == ErrGatewayRejected
}

// GatewayVerifyResult is the provider's answer about one payment token.
type GatewayVerifyResult struct {
	Success  bool
	Status   int
	Messages []string
	Payment  model.PaymentResult
}

// PaymentGateway is the external payment provider.
type PaymentGateway interface {
	// Prepare opens a payment session for amount Toman and returns its token.
	Prepare(ctx context.Context, amount int64, callbackURL string) (string, error)
	Verify(ctx context.Context, token string) (GatewayVerifyResult, error)
	// RedirectURL is where the buyer is sent to pay for token.
	RedirectURL(token string) string
}
