// Package checkout derives order totals from cart snapshots and runs the
// simulated order finalization flow.
package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/cart"
)

// Fixed pricing model: 10% tax on the subtotal, flat shipping on any
// non-empty cart.
var (
	taxRate      = decimal.RequireFromString("0.10")
	flatShipping = decimal.RequireFromString("10.00")
)

// Totals is the monetary breakdown derived from one cart snapshot. It is
// computed on demand and never stored.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals computes the order totals for a cart snapshot. It is a pure
// function with no failure modes: an empty cart yields all-zero totals,
// shipping included.
func CalculateTotals(snap cart.Snapshot) Totals {
	if snap.Empty() {
		return Totals{
			Subtotal: decimal.Zero,
			Tax:      decimal.Zero,
			Shipping: decimal.Zero,
			Total:    decimal.Zero,
		}
	}

	subtotal := snap.Subtotal()
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax).Add(flatShipping).Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: flatShipping,
		Total:    total,
	}
}
