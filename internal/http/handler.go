package http

import (
	"context"

	"github.com/fjod/go_cart/netcart/internal/checkout"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/pricing"
	"github.com/fjod/go_cart/netcart/internal/service"
)

// Storefront is the service the handlers call; *service.StorefrontService
// implements it
type Storefront interface {
	Products(ctx context.Context) []domain.Product
	Cart(ctx context.Context, sessionID string) (service.CartView, error)
	Totals(ctx context.Context, sessionID string) (pricing.Totals, error)
	AddItem(ctx context.Context, sessionID, productID string) (service.CartView, error)
	SetQuantity(ctx context.Context, sessionID, productID, raw string) (service.CartView, error)
	SetShipping(ctx context.Context, sessionID, method string) (service.CartView, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (service.CouponOutcome, error)
	Checkout(ctx context.Context, sessionID string, req service.CheckoutRequest) (checkout.Result, error)
	Reset(ctx context.Context, sessionID string) (service.CartView, error)
}

var _ Storefront = (*service.StorefrontService)(nil)
