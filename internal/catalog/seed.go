package catalog

import (
	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultCategories is the builtin category set, in menu order
var DefaultCategories = []string{
	"Audio",
	"Wearables",
	"Computers",
	"Accessories",
	"Photography",
}

// Seed returns the builtin product list
func Seed() []models.Product {
	return []models.Product{
		{
			ID:          1,
			Name:        "Premium Wireless Headphones",
			Description: "Experience crystal-clear sound with our premium wireless headphones. Featuring active noise cancellation and 24-hour battery life.",
			Price:       decimal.NewFromInt(299),
			Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Audio",
			Featured:    true,
			New:         true,
			Rating:      models.Float64(4.8),
			Colors:      []string{"#1F2937", "#FFFFFF", "#FEF3C7"},
		},
		{
			ID:          2,
			Name:        "Smart Watch Series 5",
			Description: "Stay connected with the latest smart watch. Track your fitness, receive notifications, and more with a sleek design.",
			Price:       decimal.NewFromInt(349),
			Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Wearables",
			Featured:    true,
			Rating:      models.Float64(4.6),
			Colors:      []string{"#1F2937", "#FFFFFF", "#FB7185"},
		},
		{
			ID:          3,
			Name:        "Ultralight Laptop Pro",
			Description: "The thinnest, lightest laptop we've ever made. Featuring all-day battery life and stunning display.",
			Price:       decimal.NewFromInt(1299),
			Image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Computers",
			Featured:    true,
			Rating:      models.Float64(4.9),
			Colors:      []string{"#1F2937", "#F9FAFB"},
		},
		{
			ID:          4,
			Name:        "Wireless Charging Pad",
			Description: "Elegantly designed wireless charging pad compatible with all Qi-enabled devices.",
			Price:       decimal.NewFromInt(59),
			Image:       "https://images.unsplash.com/photo-1583394838336-acd977736f90?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Accessories",
			New:         true,
			Rating:      models.Float64(4.5),
			Colors:      []string{"#1F2937", "#FFFFFF"},
		},
		{
			ID:          5,
			Name:        "Smart Home Speaker",
			Description: "Voice-controlled smart speaker with premium sound quality and intelligent assistant.",
			Price:       decimal.NewFromInt(199),
			Image:       "https://images.unsplash.com/photo-1589003077984-894e133dabab?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Audio",
			Rating:      models.Float64(4.7),
			Colors:      []string{"#1F2937", "#F9FAFB", "#FECACA"},
		},
		{
			ID:          6,
			Name:        "Ergonomic Mouse",
			Description: "Precision tracking with ergonomic design for all-day comfort.",
			Price:       decimal.NewFromInt(79),
			Image:       "https://images.unsplash.com/photo-1527814050087-3793815479db?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Accessories",
			Rating:      models.Float64(4.4),
			Colors:      []string{"#1F2937", "#FFFFFF"},
		},
		{
			ID:          7,
			Name:        "Digital Camera 4K",
			Description: "Capture stunning photos and videos with our advanced 4K digital camera.",
			Price:       decimal.NewFromInt(799),
			Image:       "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Photography",
			Featured:    true,
			Rating:      models.Float64(4.8),
			Colors:      []string{"#1F2937"},
		},
		{
			ID:          8,
			Name:        "Portable Power Bank",
			Description: "High-capacity power bank to keep your devices charged on the go.",
			Price:       decimal.NewFromInt(49),
			Image:       "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			Category:    "Accessories",
			New:         true,
			Rating:      models.Float64(4.3),
			Colors:      []string{"#1F2937", "#FFFFFF", "#FEF3C7"},
		},
	}
}
