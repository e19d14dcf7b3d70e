package service

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CatalogService exposes catalog queries to the presentation layer
type CatalogService struct {
	catalog      *catalog.Catalog
	relatedLimit int
	logger       *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(c *catalog.Catalog, relatedLimit int) *CatalogService {
	if relatedLimit <= 0 {
		relatedLimit = 4
	}
	return &CatalogService{
		catalog:      c,
		relatedLimit: relatedLimit,
		logger:       util.GetLogger(),
	}
}

// Listing is a filtered product list with its heading
type Listing struct {
	Title    string           `json:"title"`
	Count    int              `json:"count"`
	Products []models.Product `json:"products"`
}

// ResolveFilter turns routing parameters into a catalog filter. The
// "All" token means no category unless the catalog really has a
// category by that name.
func (s *CatalogService) ResolveFilter(category, flag string) catalog.Filter {
	if category == catalog.AllCategories && !s.catalog.HasCategory(category) {
		category = ""
	}
	return catalog.Filter{Category: category, Flag: catalog.ParseFlag(flag)}
}

// List returns the products matching f
func (s *CatalogService) List(ctx context.Context, f catalog.Filter) Listing {
	_, span := util.StartSpan(ctx, "CatalogService.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("catalog.category", f.Category),
		attribute.String("catalog.flag", string(f.Flag)),
	)

	util.CatalogQueriesTotal.WithLabelValues("list").Inc()

	products := s.catalog.Query(f)
	return Listing{
		Title:    catalog.Title(f),
		Count:    len(products),
		Products: products,
	}
}

// Product looks up one product. A missing product is reported with
// ErrProductNotFound so callers can redirect.
func (s *CatalogService) Product(ctx context.Context, id int64) (models.Product, error) {
	_, span := util.StartSpan(ctx, "CatalogService.Product")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	util.CatalogQueriesTotal.WithLabelValues("by_id").Inc()

	p, ok := s.catalog.ByID(id)
	if !ok {
		util.CatalogProductNotFoundTotal.Inc()
		s.logger.Debug("Product not found", zap.Int64("product_id", id))
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

// Related returns products from the same category as id. A limit of
// zero or less uses the configured default.
func (s *CatalogService) Related(ctx context.Context, id int64, limit int) ([]models.Product, error) {
	p, err := s.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.relatedLimit
	}

	util.CatalogQueriesTotal.WithLabelValues("related").Inc()
	return s.catalog.Related(p, limit), nil
}

// Featured returns featured products
func (s *CatalogService) Featured(ctx context.Context) []models.Product {
	util.CatalogQueriesTotal.WithLabelValues("featured").Inc()
	return s.catalog.Featured()
}

// New returns new arrivals
func (s *CatalogService) New(ctx context.Context) []models.Product {
	util.CatalogQueriesTotal.WithLabelValues("new").Inc()
	return s.catalog.New()
}

// Categories returns the category menu
func (s *CatalogService) Categories() []string {
	return s.catalog.Categories()
}
