package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type productRow struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Image       string          `db:"image"`
	Category    string          `db:"category"`
	Featured    bool            `db:"featured"`
	IsNew       bool            `db:"is_new"`
	Rating      sql.NullFloat64 `db:"rating"`
	Colors      pq.StringArray  `db:"colors"`
}

func (r productRow) toModel() models.Product {
	p := models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
		Featured:    r.Featured,
		New:         r.IsNew,
	}
	if r.Rating.Valid {
		p.Rating = models.Float64(r.Rating.Float64)
	}
	if len(r.Colors) > 0 {
		p.Colors = []string(r.Colors)
	}
	return p
}

// ListProducts retrieves the catalog in display order
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, price, image, category, featured, is_new, rating, colors
		FROM products
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, r.toModel())
	}
	return products, nil
}

// SeedProducts inserts products that are not present yet, keeping their
// slice order as the display position
func (s *Store) SeedProducts(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, p := range products {
		var rating sql.NullFloat64
		if p.Rating != nil {
			rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, position, name, description, price, image, category, featured, is_new, rating, colors)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, i, p.Name, p.Description, p.Price, p.Image, p.Category, p.Featured, p.New, rating, pq.StringArray(p.Colors))
		if err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
