package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fjod/go_cart/netcart/internal/checkout"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/repository"
	"github.com/fjod/go_cart/netcart/internal/service"
	"github.com/fjod/go_cart/netcart/internal/store"
)

const testSession = "test-session"

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := repository.NewMemoryRepository(time.Minute, time.Minute)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	svc := service.NewStorefrontService(repo, nil, zaptest.NewLogger(t))
	return NewRouter(svc, RouterConfig{Logger: zaptest.NewLogger(t)})
}

// do sends body (marshalled when not nil) as testSession
func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(SessionHeader, testSession)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	h := setupRouter(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListProducts(t *testing.T) {
	h := setupRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ProductsResponse](t, rec)
	require.Len(t, resp.Products, 3)
	assert.Equal(t, ProductResponse{
		ID: "p1", Title: "Wireless Earbuds", Company: "Acme Audio Co.", Price: "49.99",
	}, resp.Products[0])
}

func TestSessionHeader(t *testing.T) {
	h := setupRouter(t)

	t.Run("generated when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		sid := rec.Header().Get(SessionHeader)
		assert.NotEmpty(t, sid)
		assert.Equal(t, sid, decode[CartResponse](t, rec).SessionID)
	})

	t.Run("echoed when present", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/cart", nil)
		assert.Equal(t, testSession, rec.Header().Get(SessionHeader))
	})

	t.Run("too long", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(SessionHeader, strings.Repeat("x", 200))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_session_id", decode[ErrorResponse](t, rec).Code)
	})
}

func TestCartFlow(t *testing.T) {
	h := setupRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	cart := decode[CartResponse](t, rec)
	assert.Equal(t, map[string]int{"p1": 2}, cart.Items)
	assert.Equal(t, "99.98", cart.Totals.Total)

	rec = do(t, h, http.MethodPut, "/api/v1/cart/shipping", ShippingRequestDTO{Method: "express"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "109.98", decode[CartResponse](t, rec).Totals.Total)

	rec = do(t, h, http.MethodPost, "/api/v1/cart/coupon", CouponRequestDTO{Code: "save15"})
	require.Equal(t, http.StatusOK, rec.Code)
	coupon := decode[CouponResponse](t, rec)
	assert.True(t, coupon.Applied)
	assert.Equal(t, "Coupon applied: 15% OFF", coupon.Message)

	rec = do(t, h, http.MethodGet, "/api/v1/cart/totals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decode[TotalsResponse](t, rec)
	assert.Equal(t, "99.98", totals.Subtotal)
	assert.Equal(t, "10.00", totals.ShippingCost)
	assert.Equal(t, "109.98", totals.PreDiscountTotal)
	assert.Equal(t, "16.50", totals.Discount)
	assert.Equal(t, "93.48", totals.Total)
	assert.True(t, totals.CouponActive)
	assert.Equal(t, "SAVE15", totals.CouponCode)
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantQty  int
		wantGone bool
	}{
		{name: "string", body: `{"quantity":"4"}`, wantQty: 4},
		{name: "number", body: `{"quantity":3}`, wantQty: 3},
		{name: "leading digits", body: `{"quantity":"2abc"}`, wantQty: 2},
		{name: "zero removes", body: `{"quantity":"0"}`, wantGone: true},
		{name: "garbage removes", body: `{"quantity":"abc"}`, wantGone: true},
		{name: "negative removes", body: `{"quantity":-1}`, wantGone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupRouter(t)
			require.Equal(t, http.StatusCreated,
				do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p2"}).Code)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/p2", strings.NewReader(tt.body))
			req.Header.Set(SessionHeader, testSession)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			cart := decode[CartResponse](t, rec)
			if tt.wantGone {
				assert.NotContains(t, cart.Items, "p2")
				return
			}
			assert.Equal(t, tt.wantQty, cart.Items["p2"])
		})
	}
}

func TestApplyCoupon_Rejected(t *testing.T) {
	h := setupRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/cart/coupon", CouponRequestDTO{Code: "BOGUS"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[CouponResponse](t, rec)
	assert.False(t, resp.Applied)
	assert.Equal(t, "Invalid coupon", resp.Message)

	rec = do(t, h, http.MethodPost, "/api/v1/cart/coupon", CouponRequestDTO{Code: ""})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Enter a coupon code to apply.", decode[CouponResponse](t, rec).Message)
}

func TestCheckout(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		h := setupRouter(t)

		rec := do(t, h, http.MethodPost, "/api/v1/checkout", CheckoutRequestDTO{
			Name: "Ada", Email: "ada@example.com", PaymentMethod: "paypal",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decode[CheckoutResponse](t, rec)
		assert.False(t, resp.OK)
		assert.Equal(t, []string{"Cart is empty"}, resp.Errors)
		assert.Equal(t, "REJECTED", resp.Status)
	})

	t.Run("field errors", func(t *testing.T) {
		h := setupRouter(t)
		do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1"})

		rec := do(t, h, http.MethodPost, "/api/v1/checkout", CheckoutRequestDTO{
			Name: "", Email: "bad", PaymentMethod: "card", CardNumber: "123",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decode[CheckoutResponse](t, rec)
		assert.Equal(t, map[string]string{
			checkout.FieldName:       checkout.MsgNameRequired,
			checkout.FieldEmail:      checkout.MsgEmailInvalid,
			checkout.FieldCardNumber: checkout.MsgCardNumberInvalid,
		}, resp.FieldErrors)
		assert.Empty(t, resp.Errors)
	})

	t.Run("approved", func(t *testing.T) {
		h := setupRouter(t)
		do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p3"})
		do(t, h, http.MethodPost, "/api/v1/cart/coupon", CouponRequestDTO{Code: "SAVE15"})

		rec := do(t, h, http.MethodPost, "/api/v1/checkout", CheckoutRequestDTO{
			Name: "Ada", Email: "ada@example.com", PaymentMethod: "upi", UPIID: "ada@bank",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[CheckoutResponse](t, rec)
		assert.True(t, resp.OK)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, []string{"IDLE", "VALIDATING", "APPROVED", "IDLE"}, resp.Transitions)
		require.NotNil(t, resp.Payment)
		assert.Equal(t, "Payment Successful!", resp.Payment.Message)
		assert.Equal(t, "25.49", resp.Payment.Amount)

		// Cart stays, coupon is consumed
		cart := decode[CartResponse](t, do(t, h, http.MethodGet, "/api/v1/cart", nil))
		assert.Equal(t, 1, cart.Items["p3"])
		assert.Empty(t, cart.Coupon)
		assert.Equal(t, "29.99", cart.Totals.Total)
		require.NotNil(t, cart.LastPayment)
	})
}

func TestReset(t *testing.T) {
	h := setupRouter(t)
	do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1"})
	do(t, h, http.MethodPut, "/api/v1/cart/shipping", ShippingRequestDTO{Method: "express"})

	rec := do(t, h, http.MethodPost, "/api/v1/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[CartResponse](t, rec)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "standard", cart.Shipping)
	assert.Equal(t, "0.00", cart.Totals.Total)
}

func TestBadRequests(t *testing.T) {
	h := setupRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid json", http.MethodPost, "/api/v1/cart/items", `{`, http.StatusBadRequest, "invalid_request"},
		{"missing product", http.MethodPost, "/api/v1/cart/items", `{}`, http.StatusBadRequest, "invalid_product_id"},
		{"unknown product", http.MethodPost, "/api/v1/cart/items", `{"product_id":"p9"}`, http.StatusNotFound, "product_not_found"},
		{"unknown product quantity", http.MethodPut, "/api/v1/cart/items/p9", `{"quantity":"1"}`, http.StatusNotFound, "product_not_found"},
		{"unknown shipping", http.MethodPut, "/api/v1/cart/shipping", `{"method":"drone"}`, http.StatusBadRequest, "invalid_shipping_method"},
		{"checkout invalid json", http.MethodPost, "/api/v1/checkout", `nope`, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set(SessionHeader, testSession)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	repo := repository.NewMemoryRepository(time.Minute, time.Minute)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	h := NewRouter(service.NewStorefrontService(repo, nil, nil), RouterConfig{MaxRequestBody: 16})

	body := fmt.Sprintf(`{"product_id":"%s"}`, strings.Repeat("p", 64))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing session", service.ErrMissingSessionID, http.StatusBadRequest, "missing_session_id"},
		{"unknown product", fmt.Errorf("add: %w", store.ErrInvalidProductID), http.StatusNotFound, "product_not_found"},
		{"shipping", domain.ErrUnknownShippingMethod, http.StatusBadRequest, "invalid_shipping_method"},
		{"payment", fmt.Errorf("%w: declined", checkout.ErrPaymentFailed), http.StatusBadGateway, "payment_failed"},
		{"breaker open", fmt.Errorf("load session: %w", gobreaker.ErrOpenState), http.StatusServiceUnavailable, "service_unavailable"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(StorefrontMock{err: tt.err}, RouterConfig{})

			rec := do(t, h, http.MethodGet, "/api/v1/cart", nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantCode, resp.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error, "boom")
			}
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewRouter(StorefrontMock{}, RouterConfig{Logger: zap.New(core)})

	do(t, h, http.MethodGet, "/api/v1/products", nil)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/products", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}
