// Package payment simulates the payment gateway used by checkout.
package payment

import (
	"context"
	"time"

	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const SuccessMessage = "Payment Successful!"

type ChargeRequest struct {
	CheckoutID string
	Method     domain.PaymentMethod
	Amount     decimal.Decimal
}

// Gateway charges an approved checkout
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (domain.PaymentResult, error)
}

// Simulator is a Gateway that approves every charge synchronously
type Simulator struct {
	now func() time.Time
}

func NewSimulator() *Simulator {
	return &Simulator{now: time.Now}
}

func (s *Simulator) Charge(_ context.Context, req ChargeRequest) (domain.PaymentResult, error) {
	return domain.PaymentResult{
		TransactionID: "TXN-" + uuid.NewString(),
		Method:        req.Method,
		Amount:        req.Amount,
		Status:        domain.PaymentStatusSuccess,
		Message:       SuccessMessage,
		ProcessedAt:   s.now().UTC(),
	}, nil
}
