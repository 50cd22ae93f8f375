package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
	PaymentUPI    PaymentMethod = "upi"
)

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(raw))); m {
	case PaymentCard, PaymentPayPal, PaymentUPI:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, raw)
	}
}

// PaymentDetails carries the fields a payment method needs.
// Implemented by CardDetails, PayPalDetails and UPIDetails.
type PaymentDetails interface {
	Method() PaymentMethod
}

type CardDetails struct {
	Number string
}

func (CardDetails) Method() PaymentMethod { return PaymentCard }

type PayPalDetails struct{}

func (PayPalDetails) Method() PaymentMethod { return PaymentPayPal }

type UPIDetails struct {
	ID string
}

func (UPIDetails) Method() PaymentMethod { return PaymentUPI }

// NewPaymentDetails builds the variant for method from raw form values.
// Fields that do not belong to the method are ignored.
func NewPaymentDetails(method PaymentMethod, cardNumber, upiID string) (PaymentDetails, error) {
	switch method {
	case PaymentCard:
		return CardDetails{Number: cardNumber}, nil
	case PaymentPayPal:
		return PayPalDetails{}, nil
	case PaymentUPI:
		return UPIDetails{ID: upiID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}
}

type PaymentStatus string

const PaymentStatusSuccess PaymentStatus = "SUCCESS"

// PaymentResult is the simulated gateway outcome of an approved checkout
type PaymentResult struct {
	TransactionID string          `json:"transaction_id"`
	Method        PaymentMethod   `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	Message       string          `json:"message"`
	ProcessedAt   time.Time       `json:"processed_at"`
}
