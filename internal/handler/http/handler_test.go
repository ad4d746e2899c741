package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/storefront/internal/cart"
	"github.com/shopkit/storefront/internal/catalog"
	"github.com/shopkit/storefront/internal/domain"
	"github.com/shopkit/storefront/internal/payment"
	"github.com/shopkit/storefront/internal/provider/fixture"
	"github.com/shopkit/storefront/pkg/health"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	router  http.Handler
	catalog *catalog.Store
	cart    *cart.Store
}

func newTestEnv(t *testing.T, gateway payment.Gateway) *testEnv {
	t.Helper()

	logger := testLogger()
	catalogStore := catalog.NewStore(fixture.New(0), nil, logger)
	cartStore := cart.NewStore(gateway, nil, logger)

	return &testEnv{
		router:  NewRouter(catalogStore, cartStore, health.NewHandler(), logger),
		catalog: catalogStore,
		cart:    cartStore,
	}
}

func newLoadedEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t, payment.NewSimulated(0))
	require.NoError(t, env.catalog.Load(context.Background()))
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type catalogPayload struct {
	Data struct {
		Items         []domain.Product `json:"items"`
		FilteredItems []domain.Product `json:"filtered_items"`
		Filters       domain.Filters   `json:"filters"`
		Status        string           `json:"status"`
		ErrorMessage  string           `json:"error_message"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type cartPayload struct {
	Data struct {
		Lines          []domain.CartLine `json:"lines"`
		TotalQuantity  int               `json:"total_quantity"`
		TotalAmount    int64             `json:"total_amount"`
		CheckoutStatus string            `json:"checkout_status"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeCatalog(t *testing.T, rec *httptest.ResponseRecorder) catalogPayload {
	t.Helper()
	var p catalogPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartPayload {
	t.Helper()
	var p cartPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

// ============================================================================
// Catalog endpoints
// ============================================================================

func TestLoadCatalog(t *testing.T) {
	env := newTestEnv(t, payment.NewSimulated(0))

	rec := env.do(t, http.MethodPost, "/api/v1/catalog/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeCatalog(t, rec)
	assert.Equal(t, "ready", p.Data.Status)
	assert.Len(t, p.Data.Items, 8)
}

func TestLoadCatalog_ProviderFailure(t *testing.T) {
	logger := testLogger()
	catalogStore := catalog.NewStore(fixture.New(0).WithError(errors.New("down")), nil, logger)
	cartStore := cart.NewStore(payment.NewSimulated(0), nil, logger)
	router := NewRouter(catalogStore, cartStore, health.NewHandler(), logger)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/load", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var p catalogPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.NotNil(t, p.Error)
	assert.Equal(t, "LOAD_FAILED", p.Error.Code)
}

func TestGetCatalog(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeCatalog(t, rec)
	assert.Len(t, p.Data.FilteredItems, 8)
	assert.Equal(t, "All", p.Data.Filters.Category)
}

func TestSetFilter_SneakersThenNike(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/catalog/filters/category", SetFilterRequest{Value: "Sneakers"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/catalog/filters/brand", SetFilterRequest{Value: "Nike"})
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeCatalog(t, rec)
	ids := make([]string, 0, len(p.Data.FilteredItems))
	for _, item := range p.Data.FilteredItems {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestSetFilter_UnknownDimension(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/catalog/filters/size", SetFilterRequest{Value: "42"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	p := decodeCatalog(t, rec)
	require.NotNil(t, p.Error)
	assert.Equal(t, "INVALID_ARGUMENT", p.Error.Code)
}

func TestResetFilters(t *testing.T) {
	env := newLoadedEnv(t)

	env.do(t, http.MethodPut, "/api/v1/catalog/filters/brand", SetFilterRequest{Value: "Puma"})

	rec := env.do(t, http.MethodDelete, "/api/v1/catalog/filters", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeCatalog(t, rec)
	assert.Len(t, p.Data.FilteredItems, 8)
}

func TestReviseRating(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/catalog/products/1/rating", ReviseRatingRequest{Rating: 3.2})
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeCatalog(t, rec)
	assert.Equal(t, 3.2, p.Data.Items[0].Rating)
}

func TestReviseRating_OutOfRange(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/catalog/products/1/rating", ReviseRatingRequest{Rating: 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// Cart endpoints
// ============================================================================

func TestAddItem_TwiceAggregates(t *testing.T) {
	env := newLoadedEnv(t)

	body := AddItemRequest{ProductID: "1"}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/v1/cart/items", body).Code)
	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", body)
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeCart(t, rec)
	require.Len(t, p.Data.Lines, 1)
	assert.Equal(t, 2, p.Data.Lines[0].Quantity)
	assert.Equal(t, int64(280_00), p.Data.Lines[0].LineTotal)
	assert.Equal(t, int64(280_00), p.Data.TotalAmount)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	p := decodeCart(t, rec)
	require.NotNil(t, p.Error)
	assert.Equal(t, "NOT_FOUND", p.Error.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItemQuantity(t *testing.T) {
	env := newLoadedEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "1"})

	rec := env.do(t, http.MethodPut, "/api/v1/cart/items/1", UpdateQuantityRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeCart(t, rec)
	assert.Equal(t, 5, p.Data.Lines[0].Quantity)
	assert.Equal(t, int64(700_00), p.Data.TotalAmount)
}

func TestUpdateItemQuantity_OutOfRange(t *testing.T) {
	env := newLoadedEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "1"})

	rec := env.do(t, http.MethodPut, "/api/v1/cart/items/1", UpdateQuantityRequest{Quantity: 11})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	p := decodeCart(t, rec)
	require.NotNil(t, p.Error)
	assert.Equal(t, "INVALID_ARGUMENT", p.Error.Code)

	// The line is untouched.
	rec = env.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, 1, decodeCart(t, rec).Data.Lines[0].Quantity)
}

func TestRemoveItemAndClear(t *testing.T) {
	env := newLoadedEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "1"})
	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "5"})

	rec := env.do(t, http.MethodDelete, "/api/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeCart(t, rec).Data.Lines, 1)

	rec = env.do(t, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Data.Lines)
}

// ============================================================================
// Checkout endpoints
// ============================================================================

func TestCheckout_FullFlow(t *testing.T) {
	env := newLoadedEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "1"})
	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "1"})

	rec := env.do(t, http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Data domain.CheckoutSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(280_00), summary.Data.TotalAmount)
	assert.Equal(t, "USD", summary.Data.Currency)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/checkout/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var confirm struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirm))
	assert.Equal(t, "completed", confirm.Data["status"])
	assert.NotEmpty(t, confirm.Data["payment_id"])

	rec = env.do(t, http.MethodGet, "/api/v1/cart", nil)
	p := decodeCart(t, rec)
	assert.Empty(t, p.Data.Lines)
	assert.Equal(t, "idle", p.Data.CheckoutStatus)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	p := decodeCart(t, rec)
	require.NotNil(t, p.Error)
	assert.Equal(t, "EMPTY_CART", p.Error.Code)
}

func TestCheckout_PaymentDeclined(t *testing.T) {
	env := newTestEnv(t, payment.NewSimulated(0).WithError(fmt.Errorf("card declined")))
	require.NoError(t, env.catalog.Load(context.Background()))

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "1"})
	env.do(t, http.MethodPost, "/api/v1/cart/checkout", nil)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/checkout/confirm", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	p := decodeCart(t, rec)
	require.NotNil(t, p.Error)
	assert.Equal(t, "CHECKOUT_FAILED", p.Error.Code)

	// Cart survives the failed payment.
	rec = env.do(t, http.MethodGet, "/api/v1/cart", nil)
	got := decodeCart(t, rec)
	assert.Len(t, got.Data.Lines, 1)
	assert.Equal(t, "awaiting_confirmation", got.Data.CheckoutStatus)
}

func TestCheckout_Cancel(t *testing.T) {
	env := newLoadedEnv(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", AddItemRequest{ProductID: "1"})
	env.do(t, http.MethodPost, "/api/v1/cart/checkout", nil)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/checkout/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	p := decodeCart(t, rec)
	assert.Equal(t, "idle", p.Data.CheckoutStatus)
	assert.Len(t, p.Data.Lines, 1)
}

func TestCheckout_ConfirmWithoutRequest(t *testing.T) {
	env := newLoadedEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/checkout/confirm", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ============================================================================
// Infrastructure endpoints
// ============================================================================

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, payment.NewSimulated(0))

	rec := env.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentTypeEnforced(t *testing.T) {
	env := newLoadedEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(`{"product_id":"1"}`))
	req.Header.Set("Content-Type", "text/plain")

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
