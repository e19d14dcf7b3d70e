package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Cart owns one session's line items and mirrors them into a Store.
// All methods are safe for concurrent use; mutations are serialized.
type Cart struct {
	mu    sync.Mutex
	key   string
	store Store
	state State
}

// New creates an empty cart persisted under key
func New(key string, store Store) *Cart {
	return &Cart{
		key:   key,
		store: store,
		state: State{},
	}
}

// Key returns the storage key
func (c *Cart) Key() string {
	return c.key
}

// Load replaces the in-memory state with the stored snapshot. A missing
// snapshot leaves the cart empty and returns nil. Any other failure also
// leaves the cart empty and is returned as a diagnostic only; the cart
// remains fully usable.
func (c *Cart) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{}

	blob, err := c.store.Load(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cart snapshot %q: %w", c.key, err)
	}

	state, err := Decode(blob)
	if err != nil {
		return fmt.Errorf("discarding cart snapshot %q: %w", c.key, err)
	}

	c.state = state
	return nil
}

// Save writes the full current state to the store
func (c *Cart) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx)
}

func (c *Cart) save(ctx context.Context) error {
	blob, err := Encode(c.state)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := c.store.Save(ctx, c.key, blob); err != nil {
		return fmt.Errorf("failed to write cart snapshot %q: %w", c.key, err)
	}
	return nil
}

// Add merges quantity of p into the cart and persists the result.
// It returns the resulting line. A persistence error does not undo the
// in-memory change.
func (c *Cart) Add(ctx context.Context, p models.Product, quantity int) (models.CartLineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = c.state.Add(p, quantity)
	line, _ := c.state.Line(p.ID)
	return line, c.save(ctx)
}

// UpdateQuantity sets a line's quantity (minimum 1) and persists.
// The boolean is false, and nothing is written, when no line matches.
func (c *Cart) UpdateQuantity(ctx context.Context, productID int64, quantity int) (models.CartLineItem, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.state.UpdateQuantity(productID, quantity)
	if !ok {
		return models.CartLineItem{}, false, nil
	}
	c.state = next
	line, _ := c.state.Line(productID)
	return line, true, c.save(ctx)
}

// Remove deletes a line and persists. Removing an absent line is a no-op.
func (c *Cart) Remove(ctx context.Context, productID int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.state.Remove(productID)
	if !ok {
		return false, nil
	}
	c.state = next
	return true, c.save(ctx)
}

// Clear empties the cart. Stores that implement Deleter drop the snapshot;
// others get an empty one.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{}
	if d, ok := c.store.(Deleter); ok {
		if err := d.Delete(ctx, c.key); err != nil {
			return fmt.Errorf("failed to delete cart snapshot %q: %w", c.key, err)
		}
		return nil
	}
	return c.save(ctx)
}

// Items returns a copy of the line items in cart order
func (c *Cart) Items() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// TotalItemCount returns the sum of quantities
func (c *Cart) TotalItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.TotalItemCount()
}

// Subtotal returns the sum of price x quantity
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Subtotal()
}
