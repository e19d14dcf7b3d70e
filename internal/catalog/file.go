package catalog

import (
	"fmt"
	"io"
	"os"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type fileProduct struct {
	ID          int64    `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Image       string   `yaml:"image"`
	Category    string   `yaml:"category"`
	Featured    bool     `yaml:"featured"`
	New         bool     `yaml:"new"`
	Rating      *float64 `yaml:"rating"`
	Colors      []string `yaml:"colors"`
}

type fileCatalog struct {
	Products []fileProduct `yaml:"products"`
}

// LoadFile reads a YAML product list from path
func LoadFile(path string) ([]models.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a YAML document of the form
//
//	products:
//	  - id: 1
//	    name: ...
//	    price: "299.00"
func Decode(r io.Reader) ([]models.Product, error) {
	var doc fileCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	products := make([]models.Product, 0, len(doc.Products))
	for _, fp := range doc.Products {
		price, err := decimal.NewFromString(fp.Price)
		if err != nil {
			return nil, fmt.Errorf("product %d: invalid price %q: %w", fp.ID, fp.Price, err)
		}
		products = append(products, models.Product{
			ID:          fp.ID,
			Name:        fp.Name,
			Description: fp.Description,
			Price:       price,
			Image:       fp.Image,
			Category:    fp.Category,
			Featured:    fp.Featured,
			New:         fp.New,
			Rating:      fp.Rating,
			Colors:      fp.Colors,
		})
	}
	return products, nil
}
