package domain

// Product represents one catalog entry. All fields except Rating are
// write-once after a successful load; Rating may be revised by a
// rating-update command.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	Color         string  `json:"color"`
	Price         int64   `json:"price"`                    // cents
	OriginalPrice int64   `json:"original_price,omitempty"` // cents; 0 means never discounted
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"review_count"`
	InStock       bool    `json:"in_stock"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"image_url,omitempty"`
}

// HasDiscount reports whether the product carries a strike-through price.
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice > p.Price
}

// DiscountPercent returns the rounded discount percentage, or 0 when the
// product has no discount.
func (p *Product) DiscountPercent() int {
	if !p.HasDiscount() {
		return 0
	}
	return int(float64(p.OriginalPrice-p.Price)/float64(p.OriginalPrice)*100 + 0.5)
}

// LoadStatus tracks the catalog load lifecycle.
type LoadStatus string

const (
	LoadIdle    LoadStatus = "idle"
	LoadLoading LoadStatus = "loading"
	LoadReady   LoadStatus = "ready"
	LoadFailed  LoadStatus = "failed"
)

// CatalogState is a read-only snapshot of the catalog store.
// FilteredItems is always the subset of Items satisfying Filters, in the
// same relative order.
type CatalogState struct {
	Items         []Product  `json:"items"`
	FilteredItems []Product  `json:"filtered_items"`
	Filters       Filters    `json:"filters"`
	Status        LoadStatus `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}
