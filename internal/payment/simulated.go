package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Simulated is an in-process gateway that approves every charge after a
// configurable delay. The delay stands in for the round trip to a real
// payment processor.
type Simulated struct {
	delay time.Duration
	err   error
}

// NewSimulated creates a simulated gateway with the given charge latency.
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{delay: delay}
}

// WithError returns a copy of the gateway that declines every charge with
// the given error.
func (s *Simulated) WithError(err error) *Simulated {
	cpy := *s
	cpy.err = err
	return &cpy
}

// Charge approves the payment after the configured delay and returns a
// generated payment ID.
func (s *Simulated) Charge(ctx context.Context, amount int64, currency, reference string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if s.err != nil {
		return "", s.err
	}

	return fmt.Sprintf("sim_%s", uuid.New().String()), nil
}
