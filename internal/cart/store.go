// Package cart implements the cart state container: aggregated line items,
// derived totals, and the two-phase checkout flow.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/shopkit/storefront/internal/domain"
	"github.com/shopkit/storefront/internal/event"
	"github.com/shopkit/storefront/internal/metrics"
	"github.com/shopkit/storefront/internal/payment"
	apperrors "github.com/shopkit/storefront/pkg/errors"
)

// Currency is the single settlement currency of the storefront.
const Currency = "USD"

// Store holds the cart lines and checkout status. One line per product ID;
// lines keep their first-add order. All mutations are serialized through the
// store lock, which is released while the payment gateway is charging.
type Store struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	status   domain.CheckoutStatus
	checkout string // reference for the in-flight checkout, empty when idle

	gateway payment.Gateway
	events  *event.Producer
	logger  *slog.Logger
}

// NewStore creates an empty cart store in the idle checkout state. events
// may be nil when event publishing is disabled.
func NewStore(gateway payment.Gateway, events *event.Producer, logger *slog.Logger) *Store {
	return &Store{
		status:  domain.CheckoutIdle,
		gateway: gateway,
		events:  events,
		logger:  logger,
	}
}

// AddItem adds one unit of the product to the cart. A product already in the
// cart gets its quantity incremented, saturating at the per-line maximum.
// Out-of-stock products are rejected. Name, brand, price, and image are
// snapshotted from the product at add time.
func (s *Store) AddItem(ctx context.Context, p domain.Product) (err error) {
	defer func() { metrics.RecordCommand("cart", "add_item", err) }()

	if !p.InStock {
		return apperrors.ItemUnavailable(p.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.CheckoutProcessing {
		return apperrors.Conflict("cart is locked while checkout is processing")
	}

	if line := s.findLine(p.ID); line != nil {
		if line.Quantity >= domain.MaxLineQuantity {
			return nil
		}
		line.Quantity++
		line.LineTotal = line.Price * int64(line.Quantity)
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Brand:     p.Brand,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  1,
			LineTotal: p.Price,
		})
	}

	s.logger.DebugContext(ctx, "item added to cart",
		slog.String("product_id", p.ID),
		slog.Int("total_quantity", domain.SumQuantities(s.lines)),
	)

	s.publishUpdated(ctx)

	return nil
}

// SetQuantity replaces the quantity of an existing line. Values outside the
// allowed range are rejected and the state is untouched. A product not in
// the cart is a no-op.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) (err error) {
	defer func() { metrics.RecordCommand("cart", "set_quantity", err) }()

	if quantity < domain.MinLineQuantity || quantity > domain.MaxLineQuantity {
		return apperrors.InvalidArgument(fmt.Sprintf(
			"quantity must be between %d and %d, got %d",
			domain.MinLineQuantity, domain.MaxLineQuantity, quantity,
		))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.CheckoutProcessing {
		return apperrors.Conflict("cart is locked while checkout is processing")
	}

	line := s.findLine(productID)
	if line == nil {
		return nil
	}

	line.Quantity = quantity
	line.LineTotal = line.Price * int64(quantity)

	s.publishUpdated(ctx)

	return nil
}

// RemoveItem removes the product's line entirely, regardless of quantity.
// A product not in the cart is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) (err error) {
	defer func() { metrics.RecordCommand("cart", "remove_item", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.CheckoutProcessing {
		return apperrors.Conflict("cart is locked while checkout is processing")
	}

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.publishUpdated(ctx)
			return nil
		}
	}

	return nil
}

// Clear empties the cart. Clearing an empty cart is a no-op. An in-flight
// checkout confirmation must finish first.
func (s *Store) Clear(ctx context.Context) (err error) {
	defer func() { metrics.RecordCommand("cart", "clear", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.CheckoutProcessing {
		return apperrors.Conflict("cart is locked while checkout is processing")
	}

	if len(s.lines) == 0 {
		return nil
	}

	s.lines = nil
	s.publishCleared(ctx)

	return nil
}

// RequestCheckout begins the two-phase checkout: it validates the cart is
// non-empty and returns a summary for the caller to review. No cart state
// changes besides moving to the awaiting-confirmation status. Requesting
// again while already awaiting recomputes the summary.
func (s *Store) RequestCheckout(ctx context.Context) (summary domain.CheckoutSummary, err error) {
	defer func() { metrics.RecordCommand("cart", "request_checkout", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.CheckoutProcessing {
		return domain.CheckoutSummary{}, apperrors.Conflict("checkout is already processing")
	}

	if len(s.lines) == 0 {
		return domain.CheckoutSummary{}, apperrors.EmptyCart()
	}

	if s.status != domain.CheckoutAwaitingConf {
		s.status = domain.CheckoutAwaitingConf
		s.checkout = uuid.New().String()
	}

	summary = s.summaryLocked()

	s.logger.InfoContext(ctx, "checkout requested",
		slog.String("reference", s.checkout),
		slog.Int("total_quantity", summary.TotalQuantity),
		slog.Int64("total_amount", summary.TotalAmount),
	)

	return summary, nil
}

// ConfirmCheckout charges the payment for the awaiting checkout. The store
// lock is released for the duration of the charge; mutating commands issued
// meanwhile are rejected with a conflict. On success the cart is cleared and
// checkout returns to idle; on failure the cart is left intact and checkout
// returns to awaiting confirmation so the caller can retry or cancel.
func (s *Store) ConfirmCheckout(ctx context.Context) (paymentID string, err error) {
	defer func() { metrics.RecordCommand("cart", "confirm_checkout", err) }()

	s.mu.Lock()

	switch s.status {
	case domain.CheckoutProcessing:
		s.mu.Unlock()
		return "", apperrors.Conflict("checkout is already processing")
	case domain.CheckoutIdle:
		s.mu.Unlock()
		return "", apperrors.Conflict("no checkout awaiting confirmation")
	}

	if len(s.lines) == 0 {
		s.status = domain.CheckoutIdle
		s.checkout = ""
		s.mu.Unlock()
		return "", apperrors.EmptyCart()
	}

	s.status = domain.CheckoutProcessing
	reference := s.checkout
	summary := s.summaryLocked()
	s.mu.Unlock()

	paymentID, chargeErr := s.gateway.Charge(ctx, summary.TotalAmount, Currency, reference)

	s.mu.Lock()
	defer s.mu.Unlock()

	if chargeErr != nil {
		s.status = domain.CheckoutAwaitingConf

		s.logger.WarnContext(ctx, "checkout payment failed",
			slog.String("reference", reference),
			slog.String("error", chargeErr.Error()),
		)

		s.publishCheckoutFailed(ctx, reference, chargeErr.Error())

		return "", apperrors.CheckoutFailed("payment was declined, cart left unchanged")
	}

	s.lines = nil
	s.status = domain.CheckoutIdle
	s.checkout = ""

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("reference", reference),
		slog.String("payment_id", paymentID),
		slog.Int64("total_amount", summary.TotalAmount),
	)

	s.publishCheckoutCompleted(ctx, event.CheckoutCompletedData{
		Reference:     reference,
		PaymentID:     paymentID,
		TotalQuantity: summary.TotalQuantity,
		TotalAmount:   summary.TotalAmount,
	})
	s.publishCleared(ctx)

	return paymentID, nil
}

// CancelCheckout abandons an awaiting checkout and returns to idle, keeping
// the cart intact. Cancelling while idle is a no-op; a checkout that is
// already processing cannot be cancelled.
func (s *Store) CancelCheckout(ctx context.Context) (err error) {
	defer func() { metrics.RecordCommand("cart", "cancel_checkout", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == domain.CheckoutProcessing {
		return apperrors.Conflict("checkout is already processing and cannot be cancelled")
	}

	if s.status == domain.CheckoutAwaitingConf {
		s.logger.InfoContext(ctx, "checkout cancelled", slog.String("reference", s.checkout))
		s.status = domain.CheckoutIdle
		s.checkout = ""
	}

	return nil
}

// Snapshot returns a copy of the full cart state. Mutating the returned
// slice never affects the store.
func (s *Store) Snapshot() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)

	return domain.CartState{
		Lines:          lines,
		TotalQuantity:  domain.SumQuantities(lines),
		TotalAmount:    domain.SumLineTotals(lines),
		CheckoutStatus: s.status,
	}
}

// findLine returns a pointer into the lines slice, or nil. Callers must
// hold the lock.
func (s *Store) findLine(productID string) *domain.CartLine {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return &s.lines[i]
		}
	}
	return nil
}

// summaryLocked builds a checkout summary from the current lines. Callers
// must hold the lock.
func (s *Store) summaryLocked() domain.CheckoutSummary {
	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)

	return domain.CheckoutSummary{
		Lines:         lines,
		TotalQuantity: domain.SumQuantities(lines),
		TotalAmount:   domain.SumLineTotals(lines),
		Currency:      Currency,
	}
}

// Event publishing is best-effort and never fails the originating command.

func (s *Store) publishUpdated(ctx context.Context) {
	if s.events == nil {
		return
	}
	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	state := domain.CartState{
		Lines:          lines,
		TotalQuantity:  domain.SumQuantities(lines),
		TotalAmount:    domain.SumLineTotals(lines),
		CheckoutStatus: s.status,
	}
	if err := s.events.PublishCartUpdated(ctx, state); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.updated event",
			slog.String("error", err.Error()),
		)
	}
}

func (s *Store) publishCleared(ctx context.Context) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCartCleared(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.cleared event",
			slog.String("error", err.Error()),
		)
	}
}

func (s *Store) publishCheckoutCompleted(ctx context.Context, data event.CheckoutCompletedData) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCheckoutCompleted(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "failed to publish checkout.completed event",
			slog.String("error", err.Error()),
		)
	}
}

func (s *Store) publishCheckoutFailed(ctx context.Context, reference, reason string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCheckoutFailed(ctx, reference, reason); err != nil {
		s.logger.WarnContext(ctx, "failed to publish checkout.failed event",
			slog.String("error", err.Error()),
		)
	}
}
