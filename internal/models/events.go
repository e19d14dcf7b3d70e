package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeCartItemAdded     = "CART_ITEM_ADDED"
	EventTypeCartItemUpdated   = "CART_ITEM_UPDATED"
	EventTypeCartItemRemoved   = "CART_ITEM_REMOVED"
	EventTypeCartCleared       = "CART_CLEARED"
	EventTypeCartRestoreFailed = "CART_RESTORE_FAILED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartEvent is published after every cart mutation
type CartEvent struct {
	BaseEvent
	SessionID    string          `json:"session_id"`
	ProductID    int64           `json:"product_id,omitempty"`
	Category     string          `json:"category,omitempty"`
	Quantity     int             `json:"quantity,omitempty"`
	LineQuantity int             `json:"line_quantity,omitempty"`
	TotalItems   int             `json:"total_items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Reason       string          `json:"reason,omitempty"`
}

// MarshalJSON writes the subtotal as a JSON number
func (e CartEvent) MarshalJSON() ([]byte, error) {
	type plain CartEvent
	return json.Marshal(struct {
		plain
		Subtotal json.Number `json:"subtotal"`
	}{plain(e), jsonNumber(e.Subtotal)})
}
