package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopkit/storefront/internal/cart"
	"github.com/shopkit/storefront/internal/catalog"
	apperrors "github.com/shopkit/storefront/pkg/errors"
	"github.com/shopkit/storefront/pkg/httputil"
	"github.com/shopkit/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart and checkout endpoints. It
// resolves product IDs against the catalog store so clients never supply
// prices themselves.
type CartHandler struct {
	carts   *cart.Store
	catalog *catalog.Store
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(carts *cart.Store, cat *catalog.Store, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: cat,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// UpdateQuantityRequest is the JSON request body for replacing a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.carts.Snapshot()})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, ok := h.catalog.Product(req.ProductID)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", req.ProductID), h.logger)
		return
	}

	if err := h.carts.AddItem(r.Context(), product); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.carts.Snapshot()})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.carts.SetQuantity(r.Context(), productID, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.carts.Snapshot()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	if err := h.carts.RemoveItem(r.Context(), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.carts.Snapshot()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.carts.Snapshot()})
}

// RequestCheckout handles POST /api/v1/cart/checkout
func (h *CartHandler) RequestCheckout(w http.ResponseWriter, r *http.Request) {
	summary, err := h.carts.RequestCheckout(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// ConfirmCheckout handles POST /api/v1/cart/checkout/confirm
func (h *CartHandler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	paymentID, err := h.carts.ConfirmCheckout(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"status":     "completed",
		"payment_id": paymentID,
	}})
}

// CancelCheckout handles POST /api/v1/cart/checkout/cancel
func (h *CartHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.CancelCheckout(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.carts.Snapshot()})
}
