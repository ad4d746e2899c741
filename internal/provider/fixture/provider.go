// Package fixture serves the built-in demo catalog with a simulated
// network delay, standing in for a real product backend.
package fixture

import (
	"context"
	"time"

	"github.com/shopkit/storefront/internal/domain"
)

// Provider serves a fixed in-code catalog after a configurable delay.
type Provider struct {
	delay time.Duration
	err   error
}

// New creates a fixture provider with the given simulated latency.
func New(delay time.Duration) *Provider {
	return &Provider{delay: delay}
}

// WithError returns a copy of the provider that fails every fetch with the
// given error. Used to exercise the failed-load path.
func (p *Provider) WithError(err error) *Provider {
	cpy := *p
	cpy.err = err
	return &cpy
}

// FetchAll returns a copy of the demo catalog after the configured delay.
func (p *Provider) FetchAll(ctx context.Context) ([]domain.Product, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if p.err != nil {
		return nil, p.err
	}

	items := make([]domain.Product, len(catalog))
	copy(items, catalog)
	return items, nil
}

// catalog is the demo product set. Prices are in cents.
var catalog = []domain.Product{
	{
		ID:            "1",
		Name:          "Nike Air Monarch IV",
		Brand:         "Nike",
		Category:      "Sneakers",
		Color:         "Light Gray",
		Price:         140_00,
		OriginalPrice: 160_00,
		Rating:        4.5,
		ReviewCount:   123,
		InStock:       true,
		Description:   "Comfortable running shoes with excellent support",
		ImageURL:      "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=300&h=300&fit=crop",
	},
	{
		ID:            "2",
		Name:          "Nike Air Vapormax Plus",
		Brand:         "Nike",
		Category:      "Sneakers",
		Color:         "Red",
		Price:         140_00,
		OriginalPrice: 180_00,
		Rating:        4.3,
		ReviewCount:   89,
		InStock:       true,
		Description:   "Modern design with advanced cushioning technology",
		ImageURL:      "https://images.unsplash.com/photo-1549298916-b41d501d3772?w=300&h=300&fit=crop",
	},
	{
		ID:            "3",
		Name:          "Nike Waffle One Sneaker",
		Brand:         "Nike",
		Category:      "Sneakers",
		Color:         "Blue",
		Price:         120_00,
		OriginalPrice: 140_00,
		Rating:        4.4,
		ReviewCount:   127,
		InStock:       true,
		Description:   "Classic waffle sole design for everyday wear",
		ImageURL:      "https://images.unsplash.com/photo-1606107557195-0e29a4b5b4aa?w=300&h=300&fit=crop",
	},
	{
		ID:            "4",
		Name:          "Nike Running Shoe",
		Brand:         "Nike",
		Category:      "Sneakers",
		Color:         "Black",
		Price:         110_00,
		OriginalPrice: 130_00,
		Rating:        4.2,
		ReviewCount:   95,
		InStock:       true,
		Description:   "Lightweight running shoes for performance",
		ImageURL:      "https://images.unsplash.com/photo-1551107696-a4b0c5a0d9a2?w=300&h=300&fit=crop",
	},
	{
		ID:            "5",
		Name:          "Flat Slip On Pumps",
		Brand:         "Generic",
		Category:      "Flats",
		Color:         "Green",
		Price:         85_00,
		OriginalPrice: 100_00,
		Rating:        4.1,
		ReviewCount:   122,
		InStock:       true,
		Description:   "Comfortable slip-on flats for casual wear",
		ImageURL:      "https://images.unsplash.com/photo-1543163521-1bf539c55dd2?w=300&h=300&fit=crop",
	},
	{
		ID:            "6",
		Name:          "Knit Ballet Flat",
		Brand:         "Generic",
		Category:      "Flats",
		Color:         "Black",
		Price:         75_00,
		OriginalPrice: 90_00,
		Rating:        4.0,
		ReviewCount:   78,
		InStock:       true,
		Description:   "Elegant knit ballet flats for office wear",
		ImageURL:      "https://images.unsplash.com/photo-1560769629-975ec94e6a86?w=300&h=300&fit=crop",
	},
	{
		ID:            "7",
		Name:          "Adidas Ultraboost",
		Brand:         "Adidas",
		Category:      "Sneakers",
		Color:         "Light Gray",
		Price:         180_00,
		OriginalPrice: 200_00,
		Rating:        4.6,
		ReviewCount:   156,
		InStock:       true,
		Description:   "Premium running shoes with boost technology",
		ImageURL:      "https://images.unsplash.com/photo-1608231387042-66d1773070a5?w=300&h=300&fit=crop",
	},
	{
		ID:            "8",
		Name:          "Puma RS-X",
		Brand:         "Puma",
		Category:      "Sneakers",
		Color:         "Blue",
		Price:         90_00,
		OriginalPrice: 110_00,
		Rating:        4.3,
		ReviewCount:   67,
		InStock:       true,
		Description:   "Retro-inspired sneakers with modern comfort",
		ImageURL:      "https://images.unsplash.com/photo-1595950653106-6c9ebd614d3a?w=300&h=300&fit=crop",
	},
}
