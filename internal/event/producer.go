package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopkit/storefront/internal/domain"
	pkgkafka "github.com/shopkit/storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCatalogLoaded     = "storefront.catalog.loaded"
	TopicCartUpdated       = "storefront.cart.updated"
	TopicCartCleared       = "storefront.cart.cleared"
	TopicCheckoutCompleted = "storefront.checkout.completed"
	TopicCheckoutFailed    = "storefront.checkout.failed"
)

// Aggregate type constants.
const (
	AggregateTypeCatalog = "catalog"
	AggregateTypeCart    = "cart"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// Publisher abstracts the Kafka producer so stores can be tested without a
// broker. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// CatalogLoadedData is the payload for a catalog.loaded event.
type CatalogLoadedData struct {
	ItemCount int `json:"item_count"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	Lines         []domain.CartLine `json:"lines"`
	TotalQuantity int               `json:"total_quantity"`
	TotalAmount   int64             `json:"total_amount"`
}

// CheckoutCompletedData is the payload for a checkout.completed event.
type CheckoutCompletedData struct {
	Reference     string `json:"reference"`
	PaymentID     string `json:"payment_id"`
	TotalQuantity int    `json:"total_quantity"`
	TotalAmount   int64  `json:"total_amount"`
}

// CheckoutFailedData is the payload for a checkout.failed event.
type CheckoutFailedData struct {
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// Producer publishes storefront domain events. Publishing is best-effort:
// callers log failures and never fail the originating command on them.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishCatalogLoaded publishes a catalog.loaded event.
func (p *Producer) PublishCatalogLoaded(ctx context.Context, itemCount int) error {
	data := CatalogLoadedData{ItemCount: itemCount}

	event, err := pkgkafka.NewEvent(TopicCatalogLoaded, AggregateTypeCatalog, AggregateTypeCatalog, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create catalog.loaded event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicCatalogLoaded, event); err != nil {
		return fmt.Errorf("publish catalog.loaded event: %w", err)
	}

	p.logger.DebugContext(ctx, "published catalog.loaded event",
		slog.Int("item_count", itemCount),
	)

	return nil
}

// PublishCartUpdated publishes a cart.updated event with the full cart state.
func (p *Producer) PublishCartUpdated(ctx context.Context, state domain.CartState) error {
	data := CartUpdatedData{
		Lines:         state.Lines,
		TotalQuantity: state.TotalQuantity,
		TotalAmount:   state.TotalAmount,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, AggregateTypeCart, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context) error {
	event, err := pkgkafka.NewEvent(TopicCartCleared, AggregateTypeCart, AggregateTypeCart, SourceStorefront, struct{}{})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	return nil
}

// PublishCheckoutCompleted publishes a checkout.completed event.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, data CheckoutCompletedData) error {
	event, err := pkgkafka.NewEvent(TopicCheckoutCompleted, data.Reference, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create checkout.completed event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicCheckoutCompleted, event); err != nil {
		return fmt.Errorf("publish checkout.completed event: %w", err)
	}

	return nil
}

// PublishCheckoutFailed publishes a checkout.failed event.
func (p *Producer) PublishCheckoutFailed(ctx context.Context, reference, reason string) error {
	data := CheckoutFailedData{Reference: reference, Reason: reason}

	event, err := pkgkafka.NewEvent(TopicCheckoutFailed, reference, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create checkout.failed event: %w", err)
	}

	if err := p.publisher.Publish(ctx, TopicCheckoutFailed, event); err != nil {
		return fmt.Errorf("publish checkout.failed event: %w", err)
	}

	return nil
}
