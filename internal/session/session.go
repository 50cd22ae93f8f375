// Package session is the single-actor state object of one shopper: cart,
// applied coupon and shipping choice, plus the operations the storefront UI
// calls on them.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/netcart/internal/catalog"
	"github.com/fjod/go_cart/netcart/internal/checkout"
	"github.com/fjod/go_cart/netcart/internal/coupon"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/pricing"
	"github.com/fjod/go_cart/netcart/internal/store"
)

// State is the serializable form of a Session
type State struct {
	Items       map[string]int        `json:"items"`
	Coupon      string                `json:"coupon,omitempty"`
	Shipping    domain.ShippingMethod `json:"shipping"`
	LastPayment *domain.PaymentResult `json:"last_payment,omitempty"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// Factory holds the collaborators shared by every session
type Factory struct {
	catalog  *catalog.Catalog
	coupons  *coupon.Resolver
	pricing  *pricing.Engine
	checkout *checkout.Orchestrator
	now      func() time.Time
}

func NewFactory(cat *catalog.Catalog, coupons *coupon.Resolver, orchestrator *checkout.Orchestrator) *Factory {
	if cat == nil {
		cat = catalog.Default()
	}
	if coupons == nil {
		coupons = coupon.NewResolver(nil)
	}
	if orchestrator == nil {
		orchestrator = checkout.NewOrchestrator(nil, nil, nil)
	}
	return &Factory{
		catalog:  cat,
		coupons:  coupons,
		pricing:  pricing.NewEngine(cat, coupons),
		checkout: orchestrator,
		now:      time.Now,
	}
}

func (f *Factory) Catalog() *catalog.Catalog {
	return f.catalog
}

// New creates an empty session with standard shipping
func (f *Factory) New() *Session {
	return &Session{
		f:        f,
		cart:     store.NewCart(f.catalog),
		shipping: domain.ShippingStandard,
	}
}

// Restore rebuilds a session from st. A stored coupon the resolver no longer
// accepts is dropped.
func (f *Factory) Restore(st State) *Session {
	s := f.New()
	s.cart.Load(st.Items)
	if st.Shipping == domain.ShippingExpress {
		s.shipping = domain.ShippingExpress
	}
	if st.Coupon != "" {
		if p, err := f.coupons.Resolve(st.Coupon); err == nil {
			s.coupon = p.Code
		}
	}
	s.lastPayment = st.LastPayment
	s.updatedAt = st.UpdatedAt
	return s
}

// Session is not safe for concurrent use; callers serialize access per session.
type Session struct {
	f           *Factory
	cart        *store.Cart
	coupon      string
	shipping    domain.ShippingMethod
	lastPayment *domain.PaymentResult
	updatedAt   time.Time
}

func (s *Session) touch() {
	s.updatedAt = s.f.now().UTC()
}

func (s *Session) AddOne(productID string) error {
	if err := s.cart.AddOne(productID); err != nil {
		return err
	}
	s.touch()
	return nil
}

// SetQuantity applies a raw quantity form value; see store.ParseQuantity
func (s *Session) SetQuantity(productID, raw string) error {
	if err := s.cart.SetQuantity(productID, raw); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Session) SetShipping(method domain.ShippingMethod) {
	if method != domain.ShippingExpress {
		method = domain.ShippingStandard
	}
	s.shipping = method
	s.touch()
}

func (s *Session) Shipping() domain.ShippingMethod {
	return s.shipping
}

// ApplyCoupon stores the code when the resolver accepts it. An unknown code
// clears any coupon applied before; a blank code changes nothing.
func (s *Session) ApplyCoupon(raw string) (coupon.Policy, error) {
	p, err := s.f.coupons.Resolve(raw)
	switch {
	case err == nil:
		s.coupon = p.Code
	case errors.Is(err, coupon.ErrEmptyCode):
		return coupon.Policy{}, err
	default:
		s.coupon = ""
	}
	s.touch()
	return p, err
}

// Coupon returns the applied code or "" when none is applied
func (s *Session) Coupon() string {
	return s.coupon
}

func (s *Session) ComputeTotals() pricing.Totals {
	return s.f.pricing.Compute(s.cart.Snapshot(), s.shipping, s.coupon)
}

// SubmitCheckout validates form against the current cart and, when it passes,
// charges the simulated gateway. Approval clears the applied coupon and keeps
// the cart. A rejected attempt changes nothing.
func (s *Session) SubmitCheckout(ctx context.Context, form domain.FormInput) (checkout.Result, error) {
	res, err := s.f.checkout.Submit(ctx, checkout.Attempt{
		Form:      form,
		CartEmpty: s.cart.IsEmpty(),
		Totals:    s.ComputeTotals(),
	})
	if err != nil {
		return res, err
	}

	if res.Status == domain.CheckoutStatusApproved {
		s.coupon = ""
		s.lastPayment = res.Payment
		s.touch()
	}
	return res, nil
}

// LastPayment returns the result of the latest approved checkout, if any
func (s *Session) LastPayment() *domain.PaymentResult {
	return s.lastPayment
}

func (s *Session) Snapshot() map[string]int {
	return s.cart.Snapshot()
}

func (s *Session) IsEmpty() bool {
	return s.cart.IsEmpty()
}

// ResetAll returns the session to its initial state
func (s *Session) ResetAll() {
	s.cart.Clear()
	s.coupon = ""
	s.shipping = domain.ShippingStandard
	s.lastPayment = nil
	s.touch()
}

func (s *Session) State() State {
	return State{
		Items:       s.cart.Snapshot(),
		Coupon:      s.coupon,
		Shipping:    s.shipping,
		LastPayment: s.lastPayment,
		UpdatedAt:   s.updatedAt,
	}
}
