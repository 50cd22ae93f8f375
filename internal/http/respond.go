package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/fjod/go_cart/netcart/internal/checkout"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/service"
	"github.com/fjod/go_cart/netcart/internal/store"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent, nothing left to report to the client
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError converts service errors to HTTP status codes
func handleServiceError(w http.ResponseWriter, err error) {
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, service.ErrMissingSessionID):
		httpStatus = http.StatusBadRequest
		code = "missing_session_id"
	case errors.Is(err, store.ErrInvalidProductID):
		httpStatus = http.StatusNotFound
		code = "product_not_found"
	case errors.Is(err, domain.ErrUnknownShippingMethod):
		httpStatus = http.StatusBadRequest
		code = "invalid_shipping_method"
	case errors.Is(err, checkout.ErrPaymentFailed):
		httpStatus = http.StatusBadGateway
		code = "payment_failed"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, httpStatus, code, err.Error())
}
