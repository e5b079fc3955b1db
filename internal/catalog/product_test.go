package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int, title, category, description, price, rate string) Product {
	return Product{
		ID:          id,
		Title:       title,
		Category:    category,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Rating:      Rating{Rate: decimal.RequireFromString(rate), Count: 100},
	}
}

func TestFilter(t *testing.T) {
	products := []Product{
		product(1, "Fjallraven Backpack", "men's clothing", "Fits 15 inch laptops", "109.95", "3.9"),
		product(2, "Gold Ring", "jewelery", "Classic created ring", "168", "4.6"),
		product(3, "SSD Drive", "electronics", "Easy upgrade for faster boot", "109", "4.8"),
	}

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"empty query matches all", "", []int{1, 2, 3}},
		{"title match", "backpack", []int{1}},
		{"title match is case-insensitive", "BACKPACK", []int{1}},
		{"description match", "faster boot", []int{3}},
		{"category match", "jewelery", []int{2}},
		{"no match", "toaster", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(products, tt.query)
			ids := make([]int, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestTop_OrdersByRatingThenPrice(t *testing.T) {
	products := []Product{
		product(1, "A", "c", "d", "50", "3.0"),
		product(2, "B", "c", "d", "20", "4.5"),
		product(3, "C", "c", "d", "10", "4.5"),
		product(4, "D", "c", "d", "5", "5.0"),
	}

	got := Top(products, 3)

	require.Len(t, got, 3)
	assert.Equal(t, 4, got[0].ID, "highest rating first")
	assert.Equal(t, 3, got[1].ID, "cheaper wins the rating tie")
	assert.Equal(t, 2, got[2].ID)
}

func TestTop_DoesNotMutateInput(t *testing.T) {
	products := []Product{
		product(1, "A", "c", "d", "50", "3.0"),
		product(2, "B", "c", "d", "20", "4.5"),
	}

	_ = Top(products, 10)

	assert.Equal(t, 1, products[0].ID, "input order preserved")
}

func TestTop_LimitLargerThanInput(t *testing.T) {
	products := []Product{product(1, "A", "c", "d", "50", "3.0")}
	assert.Len(t, Top(products, 10), 1)
}
