package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/checkout"
)

var errMissingField = errors.New("missing field")

func (h *Handler) totalsSnapshot() checkout.Totals {
	return checkout.CalculateTotals(h.cart.Snapshot())
}

// PlaceOrder runs checkout finalization: form validation, the simulated
// payment delay under an exclusive cart lease, then the receipt. Field
// validation failures come back as 422 with a per-field message map; an empty
// cart is 400.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := decodeForm(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	receipt, err := h.checkout.Finalize(r.Context(), form)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	h.ordersFinalized.Add(r.Context(), 1)
	h.checkoutDuration.Record(r.Context(), time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeReceipt(e, receipt)
	})
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusUnprocessableEntity, func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("code", func(e *jx.Encoder) { e.Int(http.StatusUnprocessableEntity) })
				e.Field("message", func(e *jx.Encoder) { e.Str("checkout form invalid") })
				e.Field("fields", func(e *jx.Encoder) {
					e.Obj(func(e *jx.Encoder) {
						// Stable field order keeps responses diffable.
						names := make([]string, 0, len(vErr.Fields))
						for name := range vErr.Fields {
							names = append(names, name)
						}
						sort.Strings(names)
						for _, name := range names {
							msg := vErr.Fields[name]
							e.Field(name, func(e *jx.Encoder) { e.Str(msg) })
						}
					})
				})
			})
		})
		return
	}

	if errors.Is(err, checkout.ErrEmptyCart) {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	zctx.From(r.Context()).Error("Checkout failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeForm(body []byte) (checkout.Form, error) {
	var f checkout.Form
	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		target, ok := formField(&f, key)
		if !ok {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		*target = v
		return nil
	})
	return f, err
}

// formField maps a wire field name to its Form field.
func formField(f *checkout.Form, key string) (*string, bool) {
	switch key {
	case "firstName":
		return &f.FirstName, true
	case "lastName":
		return &f.LastName, true
	case "email":
		return &f.Email, true
	case "phone":
		return &f.Phone, true
	case "address":
		return &f.Address, true
	case "city":
		return &f.City, true
	case "state":
		return &f.State, true
	case "zipCode":
		return &f.ZipCode, true
	case "cardNumber":
		return &f.CardNumber, true
	case "cardExpiry":
		return &f.CardExpiry, true
	case "cardCVC":
		return &f.CardCVC, true
	default:
		return nil, false
	}
}
