package catalog

import (
	"fmt"

	"storefront/internal/models"
)

// AllCategories is the routing token that means "no category filter".
const AllCategories = "All"

// Flag narrows a listing to featured or new products
type Flag string

const (
	FlagNone     Flag = ""
	FlagFeatured Flag = "featured"
	FlagNew      Flag = "new"
)

// ParseFlag maps a routing token to a Flag. Unknown tokens mean no flag.
func ParseFlag(s string) Flag {
	switch Flag(s) {
	case FlagFeatured:
		return FlagFeatured
	case FlagNew:
		return FlagNew
	default:
		return FlagNone
	}
}

// Filter selects a subset of the catalog. The zero value selects everything.
type Filter struct {
	Category string
	Flag     Flag
}

// Catalog answers read-only queries over a fixed product list
type Catalog struct {
	products   []models.Product
	byID       map[int64]int
	byCategory map[string][]int
	categories []string
}

// New validates the product list and builds the lookup indexes
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{
		products:   make([]models.Product, len(products)),
		byID:       make(map[int64]int, len(products)),
		byCategory: make(map[string][]int),
	}
	copy(c.products, products)

	for i, p := range c.products {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		c.byID[p.ID] = i

		if _, seen := c.byCategory[p.Category]; !seen {
			c.categories = append(c.categories, p.Category)
		}
		c.byCategory[p.Category] = append(c.byCategory[p.Category], i)
	}

	return c, nil
}

func validate(p models.Product) error {
	if p.ID <= 0 {
		return fmt.Errorf("product id must be positive, got %d", p.ID)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %d: negative price %s", p.ID, p.Price)
	}
	if p.Category == "" {
		return fmt.Errorf("product %d: missing category", p.ID)
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return fmt.Errorf("product %d: rating %.1f out of range", p.ID, *p.Rating)
	}
	return nil
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// All returns every product in catalog order
func (c *Catalog) All() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByID looks up a product. The boolean is false when the id is unknown.
func (c *Catalog) ByID(id int64) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// ByCategory returns the products of one category in catalog order.
// An empty category returns the whole catalog.
func (c *Catalog) ByCategory(category string) []models.Product {
	if category == "" {
		return c.All()
	}
	return c.pick(c.byCategory[category])
}

// Featured returns products flagged as featured
func (c *Catalog) Featured() []models.Product {
	return c.where(func(p models.Product) bool { return p.Featured })
}

// New returns products flagged as new
func (c *Catalog) New() []models.Product {
	return c.where(func(p models.Product) bool { return p.New })
}

// Related returns up to limit products sharing p's category, excluding p
func (c *Catalog) Related(p models.Product, limit int) []models.Product {
	out := make([]models.Product, 0)
	if limit <= 0 {
		return out
	}
	for _, i := range c.byCategory[p.Category] {
		if c.products[i].ID == p.ID {
			continue
		}
		out = append(out, c.products[i])
		if len(out) == limit {
			break
		}
	}
	return out
}

// Query applies the flag and then the category of f
func (c *Catalog) Query(f Filter) []models.Product {
	var candidates []models.Product
	switch f.Flag {
	case FlagFeatured:
		candidates = c.Featured()
	case FlagNew:
		candidates = c.New()
	default:
		return c.ByCategory(f.Category)
	}

	if f.Category == "" {
		return candidates
	}
	out := make([]models.Product, 0, len(candidates))
	for _, p := range candidates {
		if p.Category == f.Category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// HasCategory reports whether any product carries the category
func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.byCategory[category]
	return ok
}

// Title names a listing the way the storefront headings do
func Title(f Filter) string {
	if f.Category != "" {
		return f.Category
	}
	switch f.Flag {
	case FlagFeatured:
		return "Featured Products"
	case FlagNew:
		return "New Arrivals"
	default:
		return "All Products"
	}
}

func (c *Catalog) pick(idx []int) []models.Product {
	out := make([]models.Product, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.products[i])
	}
	return out
}

func (c *Catalog) where(keep func(models.Product) bool) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
