package domain

import "time"

// LineItem is one product entry in the cart.
type LineItem struct {
	Description string  `json:"description"`
	UnitType    string  `json:"unit_type"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// Subtotal is quantity × price.
func (li LineItem) Subtotal() float64 {
	return li.Quantity * li.Price
}

// Draft is the cart and metadata assembled before commit.
type Draft struct {
	// ID is assigned when the draft is created and doubles as the
	// idempotency key of the commit.
	ID            string     `json:"id"`
	ClientName    string     `json:"client_name"`
	LineItems     []LineItem `json:"line_items"`
	Pending       *LineItem  `json:"pending,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Total         float64    `json:"total"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewDraft creates an empty draft.
func NewDraft(id string, now time.Time) *Draft {
	return &Draft{
		ID:        id,
		LineItems: []LineItem{},
		CreatedAt: now,
	}
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	out := d
	if d.LineItems != nil {
		out.LineItems = make([]LineItem, len(d.LineItems))
		copy(out.LineItems, d.LineItems)
	}
	if d.Pending != nil {
		p := *d.Pending
		out.Pending = &p
	}
	return out
}

// ComputeTotal sums quantity × price over the line items.
func (d Draft) ComputeTotal() float64 {
	var total float64
	for _, item := range d.LineItems {
		total += item.Subtotal()
	}
	return total
}

// RemoveAt removes the item at zero-based index i, keeping the relative order
// of the rest, and returns the removed item.
func (d *Draft) RemoveAt(i int) (LineItem, bool) {
	if i < 0 || i >= len(d.LineItems) {
		return LineItem{}, false
	}
	removed := d.LineItems[i]
	items := make([]LineItem, 0, len(d.LineItems)-1)
	items = append(items, d.LineItems[:i]...)
	items = append(items, d.LineItems[i+1:]...)
	d.LineItems = items
	return removed, true
}
