package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
)

const defaultTopLimit = 10

// ListProducts returns the product listing. Optional query parameters:
// "category" narrows to one category, "q" filters by free-text search.
// Catalog failures surface as an empty listing, never as an error response.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products := h.catalog.Search(r.Context(), q.Get("q"), q.Get("category"))

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProducts(e, products)
	})
}

// TopProducts returns the highest-rated products, cheapest first among ties.
// Optional "limit" parameter, default 10.
func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit := defaultTopLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	products := h.catalog.Top(r.Context(), limit)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProducts(e, products)
	})
}

// GetProduct returns a single product by ID. A missing entry and an
// unreachable catalog both map to 404.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return
	}

	p := h.catalog.Product(r.Context(), id)
	if p == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProduct(e, *p)
	})
}

// ListCategories returns the catalog's category labels.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.catalog.Categories(r.Context())

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, c := range categories {
				e.Str(c)
			}
		})
	})
}
