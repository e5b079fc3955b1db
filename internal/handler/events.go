package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/cart"
)

// CartEvents streams cart snapshots as server-sent events: one initial
// snapshot on connect, then one event per mutation, until the client
// disconnects. This is the HTTP form of the cart's subscription mechanism.
func (h *Handler) CartEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// The store notifies observers synchronously while holding its mutation
	// lock, so the callback must never block: buffer and drop. A dropped
	// snapshot is always followed by a newer one or the stream's end.
	events := make(chan cart.Snapshot, 16)
	unsubscribe := h.cart.Subscribe(func(snap cart.Snapshot) {
		select {
		case events <- snap:
		default:
		}
	})
	defer unsubscribe()

	writeEvent := func(snap cart.Snapshot) {
		e := &jx.Encoder{}
		encodeCart(e, snap)
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(e.Bytes())
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}

	writeEvent(h.cart.Snapshot())

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-events:
			writeEvent(snap)
		}
	}
}
