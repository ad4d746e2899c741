package provider

import (
	"context"

	"github.com/shopkit/storefront/internal/domain"
)

// Provider is the external product data source consumed by the catalog
// store. FetchAll is asynchronous from the store's point of view (the
// store stays in Loading while it runs), idempotent, and has non-zero
// latency.
type Provider interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}
