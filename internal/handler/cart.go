package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
)

// GetCart returns the current cart snapshot with derived item count and
// subtotal.
func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	snap := h.cart.Snapshot()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCart(e, snap)
	})
}

// GetCartTotals returns the full order-total breakdown for the current cart.
func (h *Handler) GetCartTotals(w http.ResponseWriter, _ *http.Request) {
	totals := h.totalsSnapshot()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeTotals(e, totals)
	})
}

// AddCartItem adds one unit of the product named in the body to the cart. The
// product snapshot is taken from the catalog at add time; if the catalog
// cannot supply it (missing or unreachable) the request is rejected.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := decodeAddItem(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	p := h.catalog.Product(r.Context(), productID)
	if p == nil {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("product %d is unavailable", productID))
		return
	}

	h.cart.Add(*p)
	h.GetCart(w, r)
}

// UpdateCartItem sets the quantity of one cart line. Non-positive quantities
// are clamped to 1 by the store; unknown product IDs are a no-op.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quantity, err := decodeUpdateItem(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	h.cart.UpdateQuantity(productID, quantity)
	h.GetCart(w, r)
}

// RemoveCartItem deletes one cart line. Absent IDs are a no-op.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "product id must be an integer")
		return
	}

	h.cart.Remove(productID)
	h.GetCart(w, r)
}

// ClearCart empties the cart unconditionally.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	h.GetCart(w, r)
}

func decodeAddItem(body []byte) (productID int, err error) {
	found := false
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "productId" {
			return d.Skip()
		}
		v, err := d.Int()
		if err != nil {
			return err
		}
		productID = v
		found = true
		return nil
	}); err != nil {
		return 0, err
	}
	if !found {
		return 0, errMissingField
	}
	return productID, nil
}

func decodeUpdateItem(body []byte) (quantity int, err error) {
	found := false
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		if err != nil {
			return err
		}
		quantity = v
		found = true
		return nil
	}); err != nil {
		return 0, err
	}
	if !found {
		return 0, errMissingField
	}
	return quantity, nil
}
