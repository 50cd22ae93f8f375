// Package checkout validates checkout forms and decides whether a simulated
// payment may proceed.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"

	d "github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/payment"
	"github.com/fjod/go_cart/netcart/internal/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Attempt is everything the orchestrator reads for one checkout
type Attempt struct {
	Form      d.FormInput
	CartEmpty bool
	Totals    pricing.Totals
}

// Result is the outcome of one checkout attempt. The orchestrator is back in
// Idle when it is returned; Status holds the terminal state that was reached.
type Result struct {
	d.ValidationResult
	CheckoutID  string             `json:"checkout_id"`
	Status      d.CheckoutStatus   `json:"status"`
	Transitions []d.CheckoutStatus `json:"transitions"`
	Totals      pricing.Totals     `json:"totals"`
	Payment     *d.PaymentResult   `json:"payment,omitempty"`
}

// Err returns nil for an approved result and otherwise joins ErrEmptyCart
// and one FieldError per failed field, ordered by field name
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	var errs []error
	for _, msg := range r.Errors {
		switch msg {
		case MsgCartEmpty:
			errs = append(errs, ErrEmptyCart)
		case ErrPaymentFailed.Error():
			errs = append(errs, ErrPaymentFailed)
		}
	}

	fields := make([]string, 0, len(r.FieldErrors))
	for f := range r.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		errs = append(errs, FieldError{Field: f, Message: r.FieldErrors[f]})
	}
	return errors.Join(errs...)
}

type Orchestrator struct {
	validator *Validator
	gateway   payment.Gateway
	log       *zap.Logger
}

func NewOrchestrator(validator *Validator, gateway payment.Gateway, log *zap.Logger) *Orchestrator {
	if validator == nil {
		validator = NewValidator()
	}
	if gateway == nil {
		gateway = payment.NewSimulator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{validator: validator, gateway: gateway, log: log}
}

// Submit runs Idle -> Validating -> Rejected|Approved -> Idle. It never mutates
// the cart or coupon; the caller applies the post-approval reset. The error is
// non-nil only when the payment gateway fails or the status table is violated.
func (o *Orchestrator) Submit(ctx context.Context, a Attempt) (Result, error) {
	m := newMachine()
	res := Result{
		CheckoutID: uuid.NewString(),
		Totals:     a.Totals,
	}
	log := o.log.With(zap.String("checkout_id", res.CheckoutID))

	finish := func(terminal d.CheckoutStatus) error {
		if err := m.moveTo(terminal); err != nil {
			return err
		}
		res.Status = terminal
		if err := m.moveTo(d.CheckoutStatusIdle); err != nil {
			return err
		}
		res.Transitions = m.trail
		return nil
	}

	if err := m.moveTo(d.CheckoutStatusValidating); err != nil {
		return res, err
	}

	res.ValidationResult = o.validator.Validate(a.Form, a.CartEmpty)
	if !res.OK {
		log.Info("checkout rejected", zap.Error(res.Err()))
		return res, finish(d.CheckoutStatusRejected)
	}

	charge, err := o.gateway.Charge(ctx, payment.ChargeRequest{
		CheckoutID: res.CheckoutID,
		Method:     a.Form.Payment.Method(),
		Amount:     a.Totals.Total,
	})
	if err != nil {
		log.Warn("payment failed", zap.Error(err))
		res.OK = false
		res.Errors = append(res.Errors, ErrPaymentFailed.Error())
		if ferr := finish(d.CheckoutStatusRejected); ferr != nil {
			return res, ferr
		}
		return res, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	res.Payment = &charge
	log.Info("checkout approved",
		zap.String("transaction_id", charge.TransactionID),
		zap.String("method", string(charge.Method)),
		zap.String("amount", charge.Amount.StringFixed(2)))
	return res, finish(d.CheckoutStatusApproved)
}
