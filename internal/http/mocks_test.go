package http

import (
	"context"

	"github.com/fjod/go_cart/netcart/internal/catalog"
	"github.com/fjod/go_cart/netcart/internal/checkout"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/pricing"
	"github.com/fjod/go_cart/netcart/internal/service"
)

// StorefrontMock fails every session call with err
type StorefrontMock struct {
	err error
}

func (m StorefrontMock) Products(context.Context) []domain.Product {
	return catalog.Default().All()
}

func (m StorefrontMock) Cart(context.Context, string) (service.CartView, error) {
	return service.CartView{}, m.err
}

func (m StorefrontMock) Totals(context.Context, string) (pricing.Totals, error) {
	return pricing.Totals{}, m.err
}

func (m StorefrontMock) AddItem(context.Context, string, string) (service.CartView, error) {
	return service.CartView{}, m.err
}

func (m StorefrontMock) SetQuantity(context.Context, string, string, string) (service.CartView, error) {
	return service.CartView{}, m.err
}

func (m StorefrontMock) SetShipping(context.Context, string, string) (service.CartView, error) {
	return service.CartView{}, m.err
}

func (m StorefrontMock) ApplyCoupon(context.Context, string, string) (service.CouponOutcome, error) {
	return service.CouponOutcome{}, m.err
}

func (m StorefrontMock) Checkout(context.Context, string, service.CheckoutRequest) (checkout.Result, error) {
	return checkout.Result{}, m.err
}

func (m StorefrontMock) Reset(context.Context, string) (service.CartView, error) {
	return service.CartView{}, m.err
}
