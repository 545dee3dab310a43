package catalog

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/example/shopfront/internal/infrastructure/store"
)

const (
	DefaultPageSize = 8
	MaxPageSize     = 100
)

// Page is one window of a product listing.
type Page struct {
	Items  []*store.Product `json:"items"`
	Total  int              `json:"total"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}

// Service exposes the product catalog. Listing and search load the full
// category from the store and page in memory; catalogs here are small
// (hundreds of items, not millions).
type Service struct {
	products store.ProductStore
	log      *logrus.Entry
}

func NewService(products store.ProductStore, log *logrus.Logger) *Service {
	return &Service{
		products: products,
		log:      log.WithField("component", "catalog"),
	}
}

func (s *Service) CreateProduct(ctx context.Context, p *store.Product) error {
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"product_id": p.ID,
		"category":   p.Category,
	}).Info("product created")
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*store.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *Service) UpdateProduct(ctx context.Context, p *store.Product) error {
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.log.WithField("product_id", p.ID).Info("product updated")
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.WithField("product_id", id).Info("product deleted")
	return nil
}

// ListProducts returns a page of products, optionally limited to one
// category. An empty category lists the whole catalog.
func (s *Service) ListProducts(ctx context.Context, category string, offset, limit int) (*Page, error) {
	if category != "" && !store.ValidCategory(category) {
		return nil, store.ErrInvalidCategory
	}

	all, err := s.products.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	return paginate(all, offset, limit), nil
}

// SearchProducts fuzzy-matches query against product names within the
// optional category, best match first. An empty query behaves like
// ListProducts.
func (s *Service) SearchProducts(ctx context.Context, query, category string, offset, limit int) (*Page, error) {
	if category != "" && !store.ValidCategory(category) {
		return nil, store.ErrInvalidCategory
	}

	all, err := s.products.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return paginate(all, offset, limit), nil
	}

	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}

	matches := fuzzy.Find(query, names)
	ranked := make([]*store.Product, len(matches))
	for i, m := range matches {
		ranked[i] = all[m.Index]
	}
	return paginate(ranked, offset, limit), nil
}

func paginate(items []*store.Product, offset, limit int) *Page {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total := len(items)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return &Page{
		Items:  items[offset:end],
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}
}
