package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/fjod/go_cart/netcart/internal/checkout"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/pricing"
	"github.com/fjod/go_cart/netcart/internal/service"
)

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

// UpdateQuantityRequestDTO accepts the quantity as the raw form value. A JSON
// number is taken as its literal text.
type UpdateQuantityRequestDTO struct {
	Quantity json.RawMessage `json:"quantity"`
}

func (d UpdateQuantityRequestDTO) raw() string {
	var s string
	if err := json.Unmarshal(d.Quantity, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(d.Quantity))
}

type ShippingRequestDTO struct {
	Method string `json:"method"`
}

type CouponRequestDTO struct {
	Code string `json:"code"`
}

type CheckoutRequestDTO struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	PaymentMethod string `json:"payment_method"`
	CardNumber    string `json:"card_number"`
	UPIID         string `json:"upi_id"`
}

type ProductResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Price   string `json:"price"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

type LineResponse struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// TotalsResponse carries money as fixed two-decimal strings
type TotalsResponse struct {
	Lines            []LineResponse `json:"lines"`
	Subtotal         string         `json:"subtotal"`
	ShippingMethod   string         `json:"shipping_method"`
	ShippingCost     string         `json:"shipping_cost"`
	PreDiscountTotal string         `json:"pre_discount_total"`
	Discount         string         `json:"discount"`
	Total            string         `json:"total"`
	CouponActive     bool           `json:"coupon_active"`
	CouponCode       string         `json:"coupon_code,omitempty"`
}

type PaymentResponse struct {
	TransactionID string    `json:"transaction_id"`
	Method        string    `json:"method"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	ProcessedAt   time.Time `json:"processed_at"`
}

type CartResponse struct {
	SessionID   string           `json:"session_id"`
	Items       map[string]int   `json:"items"`
	Shipping    string           `json:"shipping"`
	Coupon      string           `json:"coupon,omitempty"`
	Totals      TotalsResponse   `json:"totals"`
	LastPayment *PaymentResponse `json:"last_payment,omitempty"`
}

type CouponResponse struct {
	Applied bool         `json:"applied"`
	Message string       `json:"message"`
	Cart    CartResponse `json:"cart"`
}

type CheckoutResponse struct {
	OK          bool              `json:"ok"`
	CheckoutID  string            `json:"checkout_id"`
	Status      string            `json:"status"`
	Transitions []string          `json:"transitions"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Errors      []string          `json:"errors,omitempty"`
	Totals      TotalsResponse    `json:"totals"`
	Payment     *PaymentResponse  `json:"payment,omitempty"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:      p.ID,
		Title:   p.Title,
		Company: p.Company,
		Price:   p.Price.StringFixed(2),
	}
}

func toTotalsResponse(t pricing.Totals) TotalsResponse {
	lines := make([]LineResponse, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = LineResponse{
			ProductID: l.ProductID,
			Title:     l.Title,
			Company:   l.Company,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Subtotal:  l.Subtotal.StringFixed(2),
		}
	}
	return TotalsResponse{
		Lines:            lines,
		Subtotal:         t.Subtotal.StringFixed(2),
		ShippingMethod:   t.Shipping.String(),
		ShippingCost:     t.ShippingCost.StringFixed(2),
		PreDiscountTotal: t.PreDiscountTotal.StringFixed(2),
		Discount:         t.Discount.StringFixed(2),
		Total:            t.Total.StringFixed(2),
		CouponActive:     t.CouponActive,
		CouponCode:       t.CouponCode,
	}
}

func toPaymentResponse(p *domain.PaymentResult) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		TransactionID: p.TransactionID,
		Method:        string(p.Method),
		Amount:        p.Amount.StringFixed(2),
		Status:        string(p.Status),
		Message:       p.Message,
		ProcessedAt:   p.ProcessedAt,
	}
}

func toCartResponse(v service.CartView) CartResponse {
	items := v.Items
	if items == nil {
		items = map[string]int{}
	}
	return CartResponse{
		SessionID:   v.SessionID,
		Items:       items,
		Shipping:    v.Shipping.String(),
		Coupon:      v.Coupon,
		Totals:      toTotalsResponse(v.Totals),
		LastPayment: toPaymentResponse(v.LastPayment),
	}
}

func toCheckoutResponse(r checkout.Result) CheckoutResponse {
	transitions := make([]string, len(r.Transitions))
	for i, s := range r.Transitions {
		transitions[i] = s.String()
	}
	return CheckoutResponse{
		OK:          r.OK,
		CheckoutID:  r.CheckoutID,
		Status:      r.Status.String(),
		Transitions: transitions,
		FieldErrors: r.FieldErrors,
		Errors:      r.Errors,
		Totals:      toTotalsResponse(r.Totals),
		Payment:     toPaymentResponse(r.Payment),
	}
}
