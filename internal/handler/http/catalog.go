package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopkit/storefront/internal/catalog"
	"github.com/shopkit/storefront/pkg/httputil"
	"github.com/shopkit/storefront/pkg/validator"
)

// CatalogHandler handles HTTP requests for catalog endpoints.
type CatalogHandler struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(store *catalog.Store, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:  store,
		logger: logger,
	}
}

// --- Request DTOs ---

// SetFilterRequest is the JSON request body for updating one filter dimension.
type SetFilterRequest struct {
	Value string `json:"value"`
}

// ReviseRatingRequest is the JSON request body for revising a product rating.
type ReviseRatingRequest struct {
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
}

// --- Handlers ---

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Snapshot()})
}

// LoadCatalog handles POST /api/v1/catalog/load
func (h *CatalogHandler) LoadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Snapshot()})
}

// SetFilter handles PUT /api/v1/catalog/filters/{dimension}
func (h *CatalogHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")

	var req SetFilterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.store.SetFilter(r.Context(), dimension, req.Value); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Snapshot()})
}

// ResetFilters handles DELETE /api/v1/catalog/filters
func (h *CatalogHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	h.store.ResetFilters(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Snapshot()})
}

// ReviseRating handles PUT /api/v1/catalog/products/{productId}/rating
func (h *CatalogHandler) ReviseRating(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req ReviseRatingRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	h.store.ReviseRating(r.Context(), productID, req.Rating)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.store.Snapshot()})
}
