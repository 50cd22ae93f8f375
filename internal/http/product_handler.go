package http

import (
	"net/http"
)

type ProductHandler struct {
	svc Storefront
}

func NewProductHandler(svc Storefront) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	list := h.svc.Products(r.Context())
	products := make([]ProductResponse, len(list))
	for i, p := range list {
		products[i] = toProductResponse(p)
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}
