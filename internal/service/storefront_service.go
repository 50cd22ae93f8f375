// Package service runs storefront operations against per-session state kept
// in a SessionRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/go_cart/netcart/internal/checkout"
	"github.com/fjod/go_cart/netcart/internal/coupon"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/pricing"
	"github.com/fjod/go_cart/netcart/internal/repository"
	"github.com/fjod/go_cart/netcart/internal/session"
	"github.com/fjod/go_cart/netcart/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	MsgCouponEmpty   = "Enter a coupon code to apply."
	MsgCouponInvalid = "Invalid coupon"
)

// CartView is what a client sees of its session after any operation
type CartView struct {
	SessionID   string                `json:"session_id"`
	Items       map[string]int        `json:"items"`
	Shipping    domain.ShippingMethod `json:"shipping"`
	Coupon      string                `json:"coupon,omitempty"`
	Totals      pricing.Totals        `json:"totals"`
	LastPayment *domain.PaymentResult `json:"last_payment,omitempty"`
}

// CouponOutcome reports an apply-coupon attempt. Applied is false for both
// blank and unknown codes; Message is the text shown to the customer.
type CouponOutcome struct {
	Applied bool     `json:"applied"`
	Message string   `json:"message"`
	Cart    CartView `json:"cart"`
}

// CheckoutRequest carries the raw checkout form
type CheckoutRequest struct {
	Name          string
	Email         string
	PaymentMethod string
	CardNumber    string
	UPIID         string
}

type StorefrontService struct {
	repo     repository.SessionRepository
	sessions *session.Factory
	log      *zap.Logger
	sfg      singleflight.Group // dedups concurrent loads of one session
	locks    *keyedMutex
}

func NewStorefrontService(repo repository.SessionRepository, sessions *session.Factory, log *zap.Logger) *StorefrontService {
	if sessions == nil {
		sessions = session.NewFactory(nil, nil, nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StorefrontService{
		repo:     repo,
		sessions: sessions,
		log:      log,
		locks:    newKeyedMutex(),
	}
}

func (s *StorefrontService) Products(_ context.Context) []domain.Product {
	return s.sessions.Catalog().All()
}

func (s *StorefrontService) Cart(ctx context.Context, sessionID string) (CartView, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	return view(sessionID, sess), nil
}

func (s *StorefrontService) Totals(ctx context.Context, sessionID string) (pricing.Totals, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	return sess.ComputeTotals(), nil
}

func (s *StorefrontService) AddItem(ctx context.Context, sessionID, productID string) (CartView, error) {
	var out CartView
	err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		if err := sess.AddOne(productID); err != nil {
			return err
		}
		out = view(sessionID, sess)
		return nil
	})
	return out, err
}

// SetQuantity applies a raw quantity value; anything that does not parse to a
// positive number removes the item
func (s *StorefrontService) SetQuantity(ctx context.Context, sessionID, productID, raw string) (CartView, error) {
	var out CartView
	err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		if err := sess.SetQuantity(productID, raw); err != nil {
			return err
		}
		out = view(sessionID, sess)
		return nil
	})
	return out, err
}

func (s *StorefrontService) SetShipping(ctx context.Context, sessionID, raw string) (CartView, error) {
	method, err := domain.ParseShippingMethod(raw)
	if err != nil {
		return CartView{}, err
	}

	var out CartView
	err = s.mutate(ctx, sessionID, func(sess *session.Session) error {
		sess.SetShipping(method)
		out = view(sessionID, sess)
		return nil
	})
	return out, err
}

// ApplyCoupon never fails on a bad code; the outcome says what happened.
// A blank code leaves the session untouched.
func (s *StorefrontService) ApplyCoupon(ctx context.Context, sessionID, code string) (CouponOutcome, error) {
	var out CouponOutcome
	err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		policy, err := sess.ApplyCoupon(code)
		switch {
		case err == nil:
			out.Applied = true
			out.Message = fmt.Sprintf("Coupon applied: %d%% OFF", policy.Percent())
		case errors.Is(err, coupon.ErrEmptyCode):
			out.Message = MsgCouponEmpty
		case errors.Is(err, coupon.ErrInvalidCode):
			out.Message = MsgCouponInvalid
		default:
			return err
		}
		out.Cart = view(sessionID, sess)
		return nil
	})
	return out, err
}

// Checkout validates and pays. Validation failures come back in the result
// with a nil error and leave cart and coupon as they were.
func (s *StorefrontService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (checkout.Result, error) {
	form := domain.FormInput{Name: req.Name, Email: req.Email}
	if method, err := domain.ParsePaymentMethod(req.PaymentMethod); err == nil {
		form.Payment, _ = domain.NewPaymentDetails(method, req.CardNumber, req.UPIID)
	}

	var res checkout.Result
	err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		var err error
		res, err = sess.SubmitCheckout(ctx, form)
		return err
	})
	if err != nil {
		return res, err
	}

	logger.WithTrace(ctx, s.log).Info("checkout finished",
		zap.String("session_id", sessionID),
		zap.String("checkout_id", res.CheckoutID),
		zap.String("status", res.Status.String()))
	return res, nil
}

// Reset empties the cart and clears coupon and shipping choice
func (s *StorefrontService) Reset(ctx context.Context, sessionID string) (CartView, error) {
	var out CartView
	err := s.mutate(ctx, sessionID, func(sess *session.Session) error {
		sess.ResetAll()
		out = view(sessionID, sess)
		return nil
	})
	return out, err
}

// load returns the stored session or a fresh one when none exists.
// Concurrent reads of one session share a single repository call.
func (s *StorefrontService) load(ctx context.Context, sessionID string) (*session.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrMissingSessionID
	}

	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		return s.fetch(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}

	// Restore copies the state, so sessions sharing one load stay independent
	return s.sessions.Restore(v.(session.State)), nil
}

func (s *StorefrontService) fetch(ctx context.Context, sessionID string) (session.State, error) {
	st, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return session.State{}, nil
	}
	if err != nil {
		return session.State{}, fmt.Errorf("load session: %w", err)
	}
	return st, nil
}

// mutate runs fn under the session lock and saves the result when fn succeeds
func (s *StorefrontService) mutate(ctx context.Context, sessionID string, fn func(*session.Session) error) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrMissingSessionID
	}
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	// Not through singleflight: a read started before the previous mutation
	// saved would hand back stale state.
	st, err := s.fetch(ctx, sessionID)
	if err != nil {
		return err
	}
	sess := s.sessions.Restore(st)
	if err := fn(sess); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, sessionID, sess.State()); err != nil {
		logger.WithTrace(ctx, s.log).Error("save session failed",
			zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func view(sessionID string, sess *session.Session) CartView {
	return CartView{
		SessionID:   sessionID,
		Items:       sess.Snapshot(),
		Shipping:    sess.Shipping(),
		Coupon:      sess.Coupon(),
		Totals:      sess.ComputeTotals(),
		LastPayment: sess.LastPayment(),
	}
}
