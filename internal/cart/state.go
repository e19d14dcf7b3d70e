package cart

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// State is the ordered set of line items, in first-added order.
// At most one line exists per product id.
type State []models.CartLineItem

// MaxLineQuantity caps the quantity of a single line
const MaxLineQuantity = 9999

// ClampQuantity limits q to [1, MaxLineQuantity]
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > MaxLineQuantity {
		return MaxLineQuantity
	}
	return q
}

// mergeQuantity adds two clamped quantities, saturating at MaxLineQuantity
func mergeQuantity(have, add int) int {
	return ClampQuantity(ClampQuantity(have) + ClampQuantity(add))
}

// Add merges quantity into the line for p, or appends a new line.
// The receiver is not modified.
func (s State) Add(p models.Product, quantity int) State {
	next := s.clone()
	if i := next.index(p.ID); i >= 0 {
		next[i].Quantity = mergeQuantity(next[i].Quantity, quantity)
		return next
	}
	return append(next, models.CartLineItem{Product: p, Quantity: ClampQuantity(quantity)})
}

// UpdateQuantity sets the quantity of a line, clamped to [1, MaxLineQuantity].
// The second result is false when no line matches productID.
func (s State) UpdateQuantity(productID int64, quantity int) (State, bool) {
	i := s.index(productID)
	if i < 0 {
		return s, false
	}
	next := s.clone()
	next[i].Quantity = ClampQuantity(quantity)
	return next, true
}

// Remove deletes the line for productID if present
func (s State) Remove(productID int64) (State, bool) {
	i := s.index(productID)
	if i < 0 {
		return s, false
	}
	next := make(State, 0, len(s)-1)
	next = append(next, s[:i]...)
	return append(next, s[i+1:]...), true
}

// Line returns the line for productID
func (s State) Line(productID int64) (models.CartLineItem, bool) {
	if i := s.index(productID); i >= 0 {
		return s[i], true
	}
	return models.CartLineItem{}, false
}

// TotalItemCount is the sum of quantities
func (s State) TotalItemCount() int {
	total := 0
	for _, li := range s {
		total += li.Quantity
	}
	return total
}

// Subtotal is the sum of price x quantity, excluding shipping and tax
func (s State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range s {
		total = total.Add(li.LineTotal())
	}
	return total
}

func (s State) index(productID int64) int {
	for i, li := range s {
		if li.ID == productID {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	next := make(State, len(s), len(s)+1)
	copy(next, s)
	return next
}
