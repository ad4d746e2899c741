// Package payment defines the payment gateway used by checkout and its
// simulated and HTTP-backed implementations.
package payment

import "context"

// Gateway charges a payment for a checkout. Implementations return an opaque
// payment ID on success.
type Gateway interface {
	Charge(ctx context.Context, amount int64, currency, reference string) (string, error)
}
