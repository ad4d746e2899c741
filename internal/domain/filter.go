package domain

import (
	"strconv"
	"strings"
)

// FilterAll is the wildcard value meaning "no constraint on this dimension".
const FilterAll = "All"

// Dimension identifies one independent axis of catalog filtering.
type Dimension string

const (
	DimensionCategory   Dimension = "category"
	DimensionPriceRange Dimension = "price_range"
	DimensionColor      Dimension = "color"
	DimensionBrand      Dimension = "brand"
	DimensionMinRating  Dimension = "min_rating"
	DimensionSearchTerm Dimension = "search_term"
)

// Dimensions returns all filter dimensions.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionCategory,
		DimensionPriceRange,
		DimensionColor,
		DimensionBrand,
		DimensionMinRating,
		DimensionSearchTerm,
	}
}

// IsValidDimension checks whether the given string names a filter dimension.
func IsValidDimension(s string) bool {
	for _, d := range Dimensions() {
		if string(d) == s {
			return true
		}
	}
	return false
}

// PriceBand selects one of four fixed price ranges by key, so no display
// label ever needs parsing.
type PriceBand string

const (
	PriceBandAll      PriceBand = FilterAll
	PriceBandUnder50  PriceBand = "under-50"
	PriceBand50To100  PriceBand = "50-100"
	PriceBand100To150 PriceBand = "100-150"
	PriceBandOver150  PriceBand = "over-150"
)

// Band boundaries in cents.
const (
	priceBound50  = 50_00
	priceBound100 = 100_00
	priceBound150 = 150_00
)

// IsValid checks whether the band is a known key (including the wildcard).
func (b PriceBand) IsValid() bool {
	switch b {
	case PriceBandAll, PriceBandUnder50, PriceBand50To100, PriceBand100To150, PriceBandOver150:
		return true
	}
	return false
}

// Contains reports whether the given price in cents falls inside the band.
// The wildcard band contains every price.
func (b PriceBand) Contains(price int64) bool {
	switch b {
	case PriceBandUnder50:
		return price <= priceBound50
	case PriceBand50To100:
		return price > priceBound50 && price <= priceBound100
	case PriceBand100To150:
		return price > priceBound100 && price <= priceBound150
	case PriceBandOver150:
		return price > priceBound150
	default:
		return true
	}
}

// Filters holds the active criteria for every dimension. Dimensions are
// ANDed: a product must satisfy every non-wildcard dimension to appear in
// the filtered view.
type Filters struct {
	Category   string    `json:"category"`
	PriceBand  PriceBand `json:"price_range"`
	Color      string    `json:"color"`
	Brand      string    `json:"brand"`
	MinRating  string    `json:"min_rating"` // "All" or a decimal like "4"
	SearchTerm string    `json:"search_term"`
}

// DefaultFilters returns the identity filter: every dimension wildcarded.
func DefaultFilters() Filters {
	return Filters{
		Category:   FilterAll,
		PriceBand:  PriceBandAll,
		Color:      FilterAll,
		Brand:      FilterAll,
		MinRating:  FilterAll,
		SearchTerm: "",
	}
}

// IsIdentity reports whether every dimension is at its wildcard value.
func (f Filters) IsIdentity() bool {
	return f == DefaultFilters()
}

// minRating returns the parsed rating threshold and whether the dimension
// is constrained. SetFilter validates the value, so a parse failure here
// is treated as unconstrained.
func (f Filters) minRating() (float64, bool) {
	if f.MinRating == FilterAll || f.MinRating == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(f.MinRating, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Matches evaluates every non-wildcard dimension against the product and
// ANDs the results.
func (f Filters) Matches(p *Product) bool {
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		term = strings.ToLower(term)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Brand), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}

	if f.Category != FilterAll && f.Category != "" && p.Category != f.Category {
		return false
	}

	if f.Color != FilterAll && f.Color != "" && p.Color != f.Color {
		return false
	}

	if f.Brand != FilterAll && f.Brand != "" && p.Brand != f.Brand {
		return false
	}

	if min, ok := f.minRating(); ok && p.Rating < min {
		return false
	}

	return f.PriceBand.Contains(p.Price)
}

// Apply returns the subset of items satisfying the filters, preserving the
// relative order of the input. The scan is a full re-filter on purpose:
// catalogs are small and correctness beats incremental bookkeeping.
func (f Filters) Apply(items []Product) []Product {
	filtered := make([]Product, 0, len(items))
	for i := range items {
		if f.Matches(&items[i]) {
			filtered = append(filtered, items[i])
		}
	}
	return filtered
}
