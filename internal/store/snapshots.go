package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/cart"
)

// Load retrieves the cart snapshot stored under key
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM cart_snapshots WHERE storage_key = $1", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}
	return []byte(payload), nil
}

// Save overwrites the cart snapshot stored under key
func (s *Store) Save(ctx context.Context, key string, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots (storage_key, payload)
		VALUES ($1, $2)
		ON CONFLICT (storage_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		key, string(blob))
	if err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Delete removes the cart snapshot stored under key
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_snapshots WHERE storage_key = $1", key)
	if err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
