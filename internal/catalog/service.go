package catalog

import (
	"context"
	"strconv"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher is the read surface of the remote catalog that Service consumes.
type Fetcher interface {
	Products(ctx context.Context) ([]Product, error)
	ProductByID(ctx context.Context, id int) (*Product, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]Product, error)
}

// Service is the collaborator-boundary facade over the catalog: fetch
// failures never escape it. Every error is logged and replaced with an empty
// or absent result, so consumers degrade to empty listings instead of error
// states. Concurrent identical fetches are collapsed into one upstream call.
type Service struct {
	fetcher Fetcher
	group   singleflight.Group
}

// NewService creates a Service over the given Fetcher.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Products returns the full listing, or an empty slice on any failure.
func (s *Service) Products(ctx context.Context) []Product {
	v, err, _ := s.group.Do("products", func() (any, error) {
		return s.fetcher.Products(ctx)
	})
	if err != nil {
		zctx.From(ctx).Warn("Catalog listing failed", zap.Error(err))
		return nil
	}
	return v.([]Product)
}

// Product returns a single product, or nil when it is absent or the fetch
// failed. The two cases are indistinguishable to the caller.
func (s *Service) Product(ctx context.Context, id int) *Product {
	v, err, _ := s.group.Do("product:"+strconv.Itoa(id), func() (any, error) {
		return s.fetcher.ProductByID(ctx, id)
	})
	if err != nil {
		zctx.From(ctx).Warn("Catalog lookup failed", zap.Int("product_id", id), zap.Error(err))
		return nil
	}
	return v.(*Product)
}

// Categories returns the category labels, or an empty slice on failure.
func (s *Service) Categories(ctx context.Context) []string {
	v, err, _ := s.group.Do("categories", func() (any, error) {
		return s.fetcher.Categories(ctx)
	})
	if err != nil {
		zctx.From(ctx).Warn("Catalog categories failed", zap.Error(err))
		return nil
	}
	return v.([]string)
}

// ProductsByCategory returns one category's products, or an empty slice on
// failure.
func (s *Service) ProductsByCategory(ctx context.Context, category string) []Product {
	v, err, _ := s.group.Do("category:"+category, func() (any, error) {
		return s.fetcher.ProductsByCategory(ctx, category)
	})
	if err != nil {
		zctx.From(ctx).Warn("Catalog category listing failed",
			zap.String("category", category), zap.Error(err))
		return nil
	}
	return v.([]Product)
}

// Search narrows the listing to a category when one is given, then filters by
// the free-text query.
func (s *Service) Search(ctx context.Context, query, category string) []Product {
	var products []Product
	if category != "" {
		products = s.ProductsByCategory(ctx, category)
	} else {
		products = s.Products(ctx)
	}
	return Filter(products, query)
}

// Top returns the highest-rated products, cheapest first among ties.
func (s *Service) Top(ctx context.Context, limit int) []Product {
	return Top(s.Products(ctx), limit)
}
