package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/storefront/internal/domain"
	"github.com/shopkit/storefront/internal/event"
	"github.com/shopkit/storefront/internal/provider/fixture"
	apperrors "github.com/shopkit/storefront/pkg/errors"
	pkgkafka "github.com/shopkit/storefront/pkg/kafka"
)

type stubPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (s *stubPublisher) Publish(_ context.Context, topic string, _ *pkgkafka.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topic)
	return nil
}

func (s *stubPublisher) published() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.topics...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(fixture.New(0), nil, testLogger())
}

func newLoadedStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func filteredIDs(s *Store) []string {
	snap := s.Snapshot()
	ids := make([]string, 0, len(snap.FilteredItems))
	for _, p := range snap.FilteredItems {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestLoad_Success(t *testing.T) {
	s := newTestStore(t)

	snap := s.Snapshot()
	assert.Equal(t, domain.LoadIdle, snap.Status)
	assert.Empty(t, snap.Items)

	require.NoError(t, s.Load(context.Background()))

	snap = s.Snapshot()
	assert.Equal(t, domain.LoadReady, snap.Status)
	assert.Len(t, snap.Items, 8)
	assert.Len(t, snap.FilteredItems, 8)
	assert.Empty(t, snap.ErrorMessage)
}

func TestLoad_Failure(t *testing.T) {
	boom := errors.New("provider down")
	s := NewStore(fixture.New(0).WithError(boom), nil, testLogger())

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrLoadFailed)
	assert.Equal(t, 502, apperrors.HTTPStatus(err))

	snap := s.Snapshot()
	assert.Equal(t, domain.LoadFailed, snap.Status)
	assert.NotEmpty(t, snap.ErrorMessage)
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.FilteredItems)
}

func TestLoad_RecoversAfterFailure(t *testing.T) {
	s := NewStore(fixture.New(0).WithError(errors.New("transient")), nil, testLogger())
	require.Error(t, s.Load(context.Background()))

	// Swap in a healthy provider and retry.
	s.provider = fixture.New(0)
	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, domain.LoadReady, snap.Status)
	assert.Empty(t, snap.ErrorMessage)
	assert.Len(t, snap.Items, 8)
}

func TestLoad_RejectsConcurrentLoad(t *testing.T) {
	s := NewStore(fixture.New(100*time.Millisecond), nil, testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	require.Eventually(t, func() bool {
		return s.Snapshot().Status == domain.LoadLoading
	}, time.Second, time.Millisecond)

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, <-done)
	assert.Equal(t, domain.LoadReady, s.Snapshot().Status)
}

func TestLoad_PublishesCatalogLoadedEvent(t *testing.T) {
	pub := &stubPublisher{}
	s := NewStore(fixture.New(0), event.NewProducer(pub, testLogger()), testLogger())

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, []string{event.TopicCatalogLoaded}, pub.published())
}

func TestSetFilter_CategoryAndBrand(t *testing.T) {
	s := newLoadedStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFilter(ctx, "category", "Sneakers"))
	assert.Equal(t, []string{"1", "2", "3", "4", "7", "8"}, filteredIDs(s))

	require.NoError(t, s.SetFilter(ctx, "brand", "Nike"))
	assert.Equal(t, []string{"1", "2", "3", "4"}, filteredIDs(s))
}

func TestSetFilter_PriceBands(t *testing.T) {
	tests := []struct {
		band string
		want []string
	}{
		{"under-50", []string{}},
		{"50-100", []string{"5", "6", "8"}},
		{"100-150", []string{"1", "2", "3", "4"}},
		{"over-150", []string{"7"}},
		{"All", []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
	}

	for _, tt := range tests {
		t.Run(tt.band, func(t *testing.T) {
			s := newLoadedStore(t)
			require.NoError(t, s.SetFilter(context.Background(), "price_range", tt.band))
			assert.Equal(t, tt.want, filteredIDs(s))
		})
	}
}

func TestSetFilter_MinRating(t *testing.T) {
	s := newLoadedStore(t)

	require.NoError(t, s.SetFilter(context.Background(), "min_rating", "4.4"))
	assert.Equal(t, []string{"1", "3", "7"}, filteredIDs(s))

	// The threshold is inclusive.
	require.NoError(t, s.SetFilter(context.Background(), "min_rating", "4.5"))
	assert.Equal(t, []string{"1", "7"}, filteredIDs(s))
}

func TestSetFilter_SearchTerm(t *testing.T) {
	s := newLoadedStore(t)

	// Matches name or description, case-insensitively.
	require.NoError(t, s.SetFilter(context.Background(), "search_term", "RUNNING"))
	assert.Equal(t, []string{"1", "4", "7"}, filteredIDs(s))

	require.NoError(t, s.SetFilter(context.Background(), "search_term", ""))
	assert.Len(t, filteredIDs(s), 8)
}

func TestSetFilter_OrderPreserved(t *testing.T) {
	s := newLoadedStore(t)

	require.NoError(t, s.SetFilter(context.Background(), "category", "Flats"))
	assert.Equal(t, []string{"5", "6"}, filteredIDs(s))
}

func TestSetFilter_InvalidInput(t *testing.T) {
	s := newLoadedStore(t)
	ctx := context.Background()

	before := s.Snapshot()

	err := s.SetFilter(ctx, "size", "42")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	err = s.SetFilter(ctx, "price_range", "under-200")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	err = s.SetFilter(ctx, "min_rating", "lots")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Rejected commands leave the state untouched.
	assert.Equal(t, before, s.Snapshot())
}

func TestSetFilter_SurvivesReload(t *testing.T) {
	s := newLoadedStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFilter(ctx, "brand", "Adidas"))
	assert.Equal(t, []string{"7"}, filteredIDs(s))

	require.NoError(t, s.Load(ctx))

	snap := s.Snapshot()
	assert.Equal(t, "Adidas", snap.Filters.Brand)
	assert.Equal(t, []string{"7"}, filteredIDs(s))
}

func TestResetFilters(t *testing.T) {
	s := newLoadedStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFilter(ctx, "brand", "Nike"))
	require.NoError(t, s.SetFilter(ctx, "price_range", "100-150"))

	s.ResetFilters(ctx)

	snap := s.Snapshot()
	assert.True(t, snap.Filters.IsIdentity())
	assert.Len(t, snap.FilteredItems, 8)
}

func TestReviseRating(t *testing.T) {
	s := newLoadedStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetFilter(ctx, "min_rating", "4.4"))
	assert.Equal(t, []string{"1", "3", "7"}, filteredIDs(s))

	// Dropping product 1 below the threshold removes it from the view.
	s.ReviseRating(ctx, "1", 3.9)
	assert.Equal(t, []string{"3", "7"}, filteredIDs(s))

	p, ok := s.Product("1")
	require.True(t, ok)
	assert.Equal(t, 3.9, p.Rating)

	// Raising product 8 above the threshold brings it in, in catalog order.
	s.ReviseRating(ctx, "8", 4.8)
	assert.Equal(t, []string{"3", "7", "8"}, filteredIDs(s))
}

func TestReviseRating_UnknownProductIsNoOp(t *testing.T) {
	s := newLoadedStore(t)
	before := s.Snapshot()

	s.ReviseRating(context.Background(), "999", 5.0)

	assert.Equal(t, before, s.Snapshot())
}

func TestProduct_Lookup(t *testing.T) {
	s := newLoadedStore(t)

	p, ok := s.Product("1")
	require.True(t, ok)
	assert.Equal(t, "Nike Air Monarch IV", p.Name)
	assert.Equal(t, int64(140_00), p.Price)

	_, ok = s.Product("999")
	assert.False(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := newLoadedStore(t)

	snap := s.Snapshot()
	snap.Items[0].Name = "mutated"
	snap.FilteredItems[0].Name = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, "Nike Air Monarch IV", fresh.Items[0].Name)
	assert.Equal(t, "Nike Air Monarch IV", fresh.FilteredItems[0].Name)
}
