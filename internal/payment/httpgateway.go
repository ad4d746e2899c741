package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/shopkit/storefront/pkg/httpclient"
)

// chargeRequest is the wire request sent to the payment provider.
type chargeRequest struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

// chargeResponse is the wire response from the payment provider.
type chargeResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

// HTTPGateway charges payments through an external provider over HTTP,
// protected by a circuit breaker.
type HTTPGateway struct {
	client  *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewHTTPGateway creates a gateway that posts charges to the provider at
// baseURL.
func NewHTTPGateway(client *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Charge posts the charge and returns the provider's payment ID. Any
// non-approved outcome, including an open circuit, is returned as an error
// for the caller to surface as a checkout failure.
func (g *HTTPGateway) Charge(ctx context.Context, amount int64, currency, reference string) (string, error) {
	body, err := json.Marshal(chargeRequest{
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
	})
	if err != nil {
		return "", fmt.Errorf("marshal charge request: %w", err)
	}

	url := g.baseURL + "/v1/charges"
	resp, err := g.client.Post(ctx, url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("payment provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		g.logger.WarnContext(ctx, "payment provider declined charge",
			slog.Int("status", resp.StatusCode),
			slog.String("reference", reference),
		)
		return "", fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode charge response: %w", err)
	}

	if out.Status != "approved" {
		return "", fmt.Errorf("charge %s: %s", out.Status, out.Message)
	}

	return out.PaymentID, nil
}
