// Package handler exposes the storefront core to the rendering layer over a
// small JSON/HTTP surface: catalog browsing, the cart operations, and
// checkout finalization.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/storefront/internal/cart"
	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/checkout"
)

// Handler carries the injected storefront dependencies and implements all
// HTTP endpoints.
type Handler struct {
	catalog  *catalog.Service
	cart     *cart.Store
	checkout *checkout.Service

	ordersFinalized  metric.Int64Counter
	checkoutDuration metric.Float64Histogram
}

// NewHandler constructs a Handler and registers its metric instruments on the
// given provider.
func NewHandler(
	catalogSvc *catalog.Service,
	cartStore *cart.Store,
	checkoutSvc *checkout.Service,
	mp metric.MeterProvider,
) *Handler {
	meter := mp.Meter("storefront/handler")

	ordersFinalized, _ := meter.Int64Counter("storefront.orders.finalized",
		metric.WithDescription("Orders finalized through checkout"))
	checkoutDuration, _ := meter.Float64Histogram("storefront.checkout.duration",
		metric.WithDescription("Checkout finalization duration"),
		metric.WithUnit("s"))
	_, _ = meter.Int64ObservableGauge("storefront.cart.items",
		metric.WithDescription("Total item quantity currently in the cart"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(cartStore.TotalItems()))
			return nil
		}))

	return &Handler{
		catalog:          catalogSvc,
		cart:             cartStore,
		checkout:         checkoutSvc,
		ordersFinalized:  ordersFinalized,
		checkoutDuration: checkoutDuration,
	}
}

// Routes returns the mux with every API endpoint registered.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/top", h.TopProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/categories", h.ListCategories)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("GET /api/cart/totals", h.GetCartTotals)
	mux.HandleFunc("GET /api/cart/events", h.CartEvents)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /api/cart", h.ClearCart)

	mux.HandleFunc("POST /api/checkout", h.PlaceOrder)

	return mux
}

// maxBodyBytes bounds request bodies; every payload here is tiny.
const maxBodyBytes = 1 << 20

// readBody reads a bounded request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// writeJSON encodes one value with jx and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the standard {code, message} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}
