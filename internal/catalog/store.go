// Package catalog implements the catalog state container: the product list,
// the active filter criteria, and the derived filtered view.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/shopkit/storefront/internal/domain"
	"github.com/shopkit/storefront/internal/event"
	"github.com/shopkit/storefront/internal/metrics"
	"github.com/shopkit/storefront/internal/provider"
	apperrors "github.com/shopkit/storefront/pkg/errors"
)

// Store holds the catalog and its filter state. All reads and writes go
// through the store; callers only ever see snapshot copies.
type Store struct {
	mu       sync.Mutex
	items    []domain.Product
	filtered []domain.Product
	filters  domain.Filters
	status   domain.LoadStatus
	errMsg   string
	loading  bool

	provider provider.Provider
	events   *event.Producer
	logger   *slog.Logger
}

// NewStore creates an empty catalog store in the idle state. events may be
// nil when event publishing is disabled.
func NewStore(p provider.Provider, events *event.Producer, logger *slog.Logger) *Store {
	return &Store{
		filters:  domain.DefaultFilters(),
		status:   domain.LoadIdle,
		provider: p,
		events:   events,
		logger:   logger,
	}
}

// Load fetches the catalog from the provider and replaces the product list.
// The store lock is released for the duration of the fetch; commands issued
// meanwhile operate on the previous catalog. Active filter criteria survive
// the reload and are re-applied to the fresh items. A second Load while one
// is in flight is rejected rather than queued.
func (s *Store) Load(ctx context.Context) (err error) {
	defer func() { metrics.RecordCommand("catalog", "load", err) }()

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return apperrors.Conflict("catalog load already in progress")
	}
	s.loading = true
	s.status = domain.LoadLoading
	s.errMsg = ""
	s.mu.Unlock()

	items, err := s.provider.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.items = nil
		s.filtered = nil
		s.status = domain.LoadFailed
		appErr := apperrors.LoadFailed(err)
		s.errMsg = appErr.Message
		s.logger.ErrorContext(ctx, "catalog load failed", slog.String("error", err.Error()))
		return appErr
	}

	s.items = items
	s.filtered = s.filters.Apply(s.items)
	s.status = domain.LoadReady

	s.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("item_count", len(items)),
		slog.Int("filtered_count", len(s.filtered)),
	)

	s.publishLoaded(ctx, len(items))

	return nil
}

// SetFilter updates one filter dimension and recomputes the filtered view.
// The dimension name and value are validated; an unknown dimension or a
// malformed value leaves the state untouched.
func (s *Store) SetFilter(ctx context.Context, dimension, value string) (err error) {
	defer func() { metrics.RecordCommand("catalog", "set_filter", err) }()

	if !domain.IsValidDimension(dimension) {
		return apperrors.InvalidArgument(fmt.Sprintf("unknown filter dimension %q", dimension))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch domain.Dimension(dimension) {
	case domain.DimensionCategory:
		s.filters.Category = value
	case domain.DimensionPriceRange:
		band := domain.PriceBand(value)
		if !band.IsValid() {
			return apperrors.InvalidArgument(fmt.Sprintf("unknown price band %q", value))
		}
		s.filters.PriceBand = band
	case domain.DimensionColor:
		s.filters.Color = value
	case domain.DimensionBrand:
		s.filters.Brand = value
	case domain.DimensionMinRating:
		if value != domain.FilterAll {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return apperrors.InvalidArgument(fmt.Sprintf("minimum rating %q is not a number", value))
			}
		}
		s.filters.MinRating = value
	case domain.DimensionSearchTerm:
		s.filters.SearchTerm = value
	}

	s.filtered = s.filters.Apply(s.items)

	s.logger.DebugContext(ctx, "filter updated",
		slog.String("dimension", dimension),
		slog.String("value", value),
		slog.Int("filtered_count", len(s.filtered)),
	)

	return nil
}

// ResetFilters restores every dimension to its wildcard value. The filtered
// view becomes the full catalog again.
func (s *Store) ResetFilters(ctx context.Context) {
	defer metrics.RecordCommand("catalog", "reset_filters", nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = domain.DefaultFilters()
	s.filtered = make([]domain.Product, len(s.items))
	copy(s.filtered, s.items)

	s.logger.DebugContext(ctx, "filters reset", slog.Int("item_count", len(s.items)))
}

// ReviseRating updates a product's rating in place and recomputes the
// filtered view, since a rating change can move the product across the
// minimum-rating threshold. An unknown product ID is a no-op.
func (s *Store) ReviseRating(ctx context.Context, productID string, rating float64) {
	defer metrics.RecordCommand("catalog", "revise_rating", nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Rating = rating
			s.filtered = s.filters.Apply(s.items)
			return
		}
	}

	s.logger.DebugContext(ctx, "rating revision for unknown product",
		slog.String("product_id", productID),
	)
}

// Product looks up one catalog entry by ID.
func (s *Store) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], true
		}
	}
	return domain.Product{}, false
}

// Snapshot returns a copy of the full catalog state. Mutating the returned
// slices never affects the store.
func (s *Store) Snapshot() domain.CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.Product, len(s.items))
	copy(items, s.items)
	filtered := make([]domain.Product, len(s.filtered))
	copy(filtered, s.filtered)

	return domain.CatalogState{
		Items:         items,
		FilteredItems: filtered,
		Filters:       s.filters,
		Status:        s.status,
		ErrorMessage:  s.errMsg,
	}
}

// publishLoaded emits the catalog.loaded event. Publishing is best-effort
// and never fails the load. Called with the store lock held, which is fine
// because the publisher does not call back into the store.
func (s *Store) publishLoaded(ctx context.Context, itemCount int) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCatalogLoaded(ctx, itemCount); err != nil {
		s.logger.WarnContext(ctx, "failed to publish catalog.loaded event",
			slog.String("error", err.Error()),
		)
	}
}
