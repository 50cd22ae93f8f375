// Package pricing computes cart totals. Everything here is a pure function of
// the cart contents, the shipping method and the applied coupon code.
package pricing

import (
	"sort"

	"github.com/fjod/go_cart/netcart/internal/coupon"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpressShippingCost is charged on top of the subtotal for express delivery
var ExpressShippingCost = decimal.RequireFromString("10.00")

type ProductSource interface {
	Get(id string) (domain.Product, bool)
}

type CouponResolver interface {
	Resolve(raw string) (coupon.Policy, error)
}

// Line is one cart entry with the price captured at computation time
type Line struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Company   string          `json:"company"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Totals are rounded half-up to cents so every consumer shows the same numbers
type Totals struct {
	Lines            []Line                `json:"lines"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Shipping         domain.ShippingMethod `json:"shipping_method"`
	ShippingCost     decimal.Decimal       `json:"shipping_cost"`
	PreDiscountTotal decimal.Decimal       `json:"pre_discount_total"`
	Discount         decimal.Decimal       `json:"discount"`
	Total            decimal.Decimal       `json:"total"`
	CouponActive     bool                  `json:"coupon_active"`
	CouponCode       string                `json:"coupon_code,omitempty"`
}

type Engine struct {
	products ProductSource
	coupons  CouponResolver
}

func NewEngine(products ProductSource, coupons CouponResolver) *Engine {
	return &Engine{products: products, coupons: coupons}
}

// Compute prices items (productID -> quantity). Entries whose product is
// unknown or whose quantity is not positive are ignored. couponCode is
// re-resolved on every call, so a code that is no longer in the coupon
// table gives no discount.
func (e *Engine) Compute(items map[string]int, shipping domain.ShippingMethod, couponCode string) Totals {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]Line, 0, len(ids))
	subtotal := decimal.Zero
	for _, id := range ids {
		qty := items[id]
		product, ok := e.products.Get(id)
		if !ok || qty <= 0 {
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, Line{
			ProductID: id,
			Title:     product.Title,
			Company:   product.Company,
			Quantity:  qty,
			UnitPrice: product.Price,
			Subtotal:  Round(lineTotal),
		})
		subtotal = subtotal.Add(lineTotal)
	}

	if shipping == "" {
		shipping = domain.ShippingStandard
	}
	shippingCost := ShippingCost(shipping)
	preDiscount := subtotal.Add(shippingCost)

	totals := Totals{
		Lines:            lines,
		Subtotal:         Round(subtotal),
		Shipping:         shipping,
		ShippingCost:     Round(shippingCost),
		PreDiscountTotal: Round(preDiscount),
		Discount:         decimal.Zero,
		Total:            Round(preDiscount),
	}

	if couponCode == "" || e.coupons == nil {
		return totals
	}
	policy, err := e.coupons.Resolve(couponCode)
	if err != nil {
		return totals
	}

	total := Round(preDiscount.Mul(decimal.NewFromInt(1).Sub(policy.Fraction)))
	totals.Total = total
	totals.Discount = totals.PreDiscountTotal.Sub(total)
	totals.CouponActive = true
	totals.CouponCode = policy.Code
	return totals
}

func ShippingCost(method domain.ShippingMethod) decimal.Decimal {
	if method == domain.ShippingExpress {
		return ExpressShippingCost
	}
	return decimal.Zero
}

// Round rounds to cents, halves away from zero
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatPrice renders an amount the way the storefront shows it, e.g. "$49.99"
func FormatPrice(d decimal.Decimal) string {
	return "$" + Round(d).StringFixed(2)
}
