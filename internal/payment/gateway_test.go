package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/storefront/pkg/httpclient"
)

func TestSimulated_Charge(t *testing.T) {
	g := NewSimulated(0)

	id, err := g.Charge(context.Background(), 280_00, "USD", "order-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "sim_"))
}

func TestSimulated_ChargeInjectedError(t *testing.T) {
	declined := errors.New("card declined")
	g := NewSimulated(0).WithError(declined)

	_, err := g.Charge(context.Background(), 280_00, "USD", "order-1")
	assert.ErrorIs(t, err, declined)
}

func TestSimulated_ChargeContextCancelled(t *testing.T) {
	g := NewSimulated(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.Charge(ctx, 280_00, "USD", "order-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func newTestHTTPGateway(t *testing.T, handler http.HandlerFunc) *HTTPGateway {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.Config{Timeout: time.Second}),
		httpclient.DefaultCircuitBreakerConfig("payment-test"),
		logger,
	)
	return NewHTTPGateway(client, srv.URL, logger)
}

func TestHTTPGateway_ChargeApproved(t *testing.T) {
	g := newTestHTTPGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/charges", r.URL.Path)

		var req chargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(280_00), req.Amount)
		assert.Equal(t, "USD", req.Currency)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(chargeResponse{PaymentID: "pay_123", Status: "approved"})
	})

	id, err := g.Charge(context.Background(), 280_00, "USD", "order-1")
	require.NoError(t, err)
	assert.Equal(t, "pay_123", id)
}

func TestHTTPGateway_ChargeDeclined(t *testing.T) {
	g := newTestHTTPGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chargeResponse{Status: "declined", Message: "insufficient funds"})
	})

	_, err := g.Charge(context.Background(), 280_00, "USD", "order-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestHTTPGateway_ChargeProviderError(t *testing.T) {
	g := newTestHTTPGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := g.Charge(context.Background(), 280_00, "USD", "order-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
