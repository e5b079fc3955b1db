package catalog

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist in the
// remote catalog.
var ErrNotFound = errors.New("product not found")

// Product is a catalog entry as served by the remote catalog API. Instances
// are value snapshots: once copied into a cart they are unaffected by later
// catalog changes.
type Product struct {
	ID          int
	Title       string
	Price       decimal.Decimal
	Category    string
	Description string
	Image       string
	Rating      Rating
}

// Rating holds the aggregate review score for a product.
type Rating struct {
	Rate  decimal.Decimal
	Count int
}

// Filter returns the products matching the given free-text query. Matching is
// a case-insensitive substring test over title, description, and category.
// An empty query matches everything.
func Filter(products []Product, query string) []Product {
	if query == "" {
		return products
	}
	q := strings.ToLower(query)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Top returns the best products: sorted by rating descending, ties broken by
// lower price, truncated to limit. The input slice is not modified.
func Top(products []Product, limit int) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Rating.Rate.Cmp(out[j].Rating.Rate); c != 0 {
			return c > 0
		}
		return out[i].Price.LessThan(out[j].Price)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
