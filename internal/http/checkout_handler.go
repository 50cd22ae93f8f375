package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/netcart/internal/service"
)

type CheckoutHandler struct {
	svc     Storefront
	timeout time.Duration
}

func NewCheckoutHandler(svc Storefront, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// POST /api/v1/checkout
// A rejected form is answered with 422 and every failed check.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	res, err := h.svc.Checkout(ctx, getSessionID(r.Context()), service.CheckoutRequest{
		Name:          req.Name,
		Email:         req.Email,
		PaymentMethod: req.PaymentMethod,
		CardNumber:    req.CardNumber,
		UPIID:         req.UPIID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, toCheckoutResponse(res))
}
