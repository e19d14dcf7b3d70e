package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// jsonNumber renders d as a bare JSON number
func jsonNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// Product represents an immutable catalog record
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Featured    bool            `json:"featured,omitempty"`
	New         bool            `json:"new,omitempty"`
	Rating      *float64        `json:"rating,omitempty"`
	Colors      []string        `json:"colors,omitempty"`
}

// MarshalJSON writes the price as a JSON number
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain(p), jsonNumber(p.Price)})
}

// CartLineItem pairs a product with a quantity. Identity is Product.ID.
type CartLineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// MarshalJSON writes the flat line record. It shadows Product.MarshalJSON,
// which would otherwise drop the quantity.
func (li CartLineItem) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}{plain(li.Product), jsonNumber(li.Price), li.Quantity})
}

// LineTotal returns price x quantity
func (li CartLineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ShippingPending is reported in place of a shipping cost.
const ShippingPending = "Calculated at checkout"

// CartSummary is the cart as presented to callers
type CartSummary struct {
	SessionID  string          `json:"session_id"`
	Items      []CartLineItem  `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   string          `json:"shipping"`
}

// MarshalJSON writes the subtotal as a JSON number
func (s CartSummary) MarshalJSON() ([]byte, error) {
	type plain CartSummary
	return json.Marshal(struct {
		plain
		Subtotal json.Number `json:"subtotal"`
	}{plain(s), jsonNumber(s.Subtotal)})
}

// Float64 returns a pointer to v, for optional product fields.
func Float64(v float64) *float64 {
	return &v
}
