// Package redis implements the product provider on top of a Redis key
// holding the catalog document as JSON, seeded out of band.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shopkit/storefront/internal/domain"
	apperrors "github.com/shopkit/storefront/pkg/errors"
)

const catalogKey = "storefront:catalog"

// Provider fetches the product catalog from Redis.
type Provider struct {
	client *redis.Client
}

// NewProvider creates a Redis-backed product provider.
func NewProvider(client *redis.Client) *Provider {
	return &Provider{client: client}
}

// FetchAll reads and decodes the catalog document. A missing key means the
// catalog has not been seeded and is reported as a fetch failure, not an
// empty catalog.
func (p *Provider) FetchAll(ctx context.Context) ([]domain.Product, error) {
	data, err := p.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("catalog key %s not seeded: %w", catalogKey, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("redis get catalog: %w", err)
	}

	var items []domain.Product
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	return items, nil
}

// Seed writes the given catalog document, replacing any previous one.
// The key has no TTL; the catalog is the same logical document on every
// fetch.
func (p *Provider) Seed(ctx context.Context, items []domain.Product) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := p.client.Set(ctx, catalogKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set catalog: %w", err)
	}

	return nil
}

// Ping checks Redis connectivity, for readiness probes.
func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
