package handler

import (
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/cart"
	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/checkout"
)

// Wire encoders for the API payloads. Monetary values are emitted as JSON
// numbers from their decimal representation, never through float64.

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func encodeMoney(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.StringFixed(2)))
}

func encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(p.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("price", func(e *jx.Encoder) { encodeDecimal(e, p.Price) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("image", func(e *jx.Encoder) { e.Str(p.Image) })
		e.Field("rating", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("rate", func(e *jx.Encoder) { encodeDecimal(e, p.Rating.Rate) })
				e.Field("count", func(e *jx.Encoder) { e.Int(p.Rating.Count) })
			})
		})
	})
}

func encodeProducts(e *jx.Encoder, products []catalog.Product) {
	e.Arr(func(e *jx.Encoder) {
		for _, p := range products {
			encodeProduct(e, p)
		}
	})
}

func encodeCartItem(e *jx.Encoder, it cart.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("product", func(e *jx.Encoder) { encodeProduct(e, it.Product) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
	})
}

func encodeCart(e *jx.Encoder, snap cart.Snapshot) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range snap.Items {
					encodeCartItem(e, it)
				}
			})
		})
		e.Field("totalItems", func(e *jx.Encoder) { e.Int(snap.TotalItems()) })
		e.Field("subtotal", func(e *jx.Encoder) { encodeMoney(e, snap.Subtotal()) })
	})
}

func encodeTotals(e *jx.Encoder, t checkout.Totals) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("subtotal", func(e *jx.Encoder) { encodeMoney(e, t.Subtotal) })
		e.Field("tax", func(e *jx.Encoder) { encodeMoney(e, t.Tax) })
		e.Field("shipping", func(e *jx.Encoder) { encodeMoney(e, t.Shipping) })
		e.Field("total", func(e *jx.Encoder) { encodeMoney(e, t.Total) })
	})
}

func encodeReceipt(e *jx.Encoder, r *checkout.Receipt) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("orderId", func(e *jx.Encoder) { e.Str(r.OrderID) })
		e.Field("placedAt", func(e *jx.Encoder) { e.Str(r.PlacedAt.Format(time.RFC3339)) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range r.Items {
					encodeCartItem(e, it)
				}
			})
		})
		e.Field("totals", func(e *jx.Encoder) { encodeTotals(e, r.Totals) })
	})
}
