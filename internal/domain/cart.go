package domain

// Line quantity bounds. AddItem saturates at the maximum; SetQuantity
// rejects values outside the range so the contract stays observable.
const (
	MinLineQuantity = 1
	MaxLineQuantity = 10
)

// CartLine is one product's aggregated quantity entry within the cart.
// Name, Brand, Price, and ImageURL are snapshotted from the product at
// add time; later catalog changes never alter existing lines.
type CartLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Price     int64  `json:"price"` // cents, snapshotted at add time
	ImageURL  string `json:"image_url,omitempty"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"` // cents, Price * Quantity
}

// CheckoutStatus tracks the two-phase checkout flow.
type CheckoutStatus string

const (
	CheckoutIdle         CheckoutStatus = "idle"
	CheckoutAwaitingConf CheckoutStatus = "awaiting_confirmation"
	CheckoutProcessing   CheckoutStatus = "processing"
)

// CartState is a read-only snapshot of the cart store. TotalQuantity and
// TotalAmount are always consistent with Lines.
type CartState struct {
	Lines          []CartLine     `json:"lines"`
	TotalQuantity  int            `json:"total_quantity"`
	TotalAmount    int64          `json:"total_amount"`
	CheckoutStatus CheckoutStatus `json:"checkout_status"`
}

// CheckoutSummary is the proposal-phase snapshot presented to the caller
// before confirmation. Computing it changes no cart state.
type CheckoutSummary struct {
	Lines         []CartLine `json:"lines"`
	TotalQuantity int        `json:"total_quantity"`
	TotalAmount   int64      `json:"total_amount"`
	Currency      string     `json:"currency"`
}

// SumQuantities returns the total number of units across the given lines.
func SumQuantities(lines []CartLine) int {
	var total int
	for i := range lines {
		total += lines[i].Quantity
	}
	return total
}

// SumLineTotals returns the total amount in cents across the given lines.
func SumLineTotals(lines []CartLine) int64 {
	var total int64
	for i := range lines {
		total += lines[i].LineTotal
	}
	return total
}
