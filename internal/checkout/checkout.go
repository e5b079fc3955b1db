package checkout

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/cart"
)

// orderIDPrefix is combined with a millisecond timestamp to form the order
// identifier. Unique within a session only; there is no global guarantee.
const orderIDPrefix = "ORD-"

// ErrEmptyCart is returned when finalization is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// ValidationError reports which checkout form fields failed validation,
// keyed by wire field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "checkout form invalid"
}

// Form holds the shipping and payment fields collected by the rendering
// layer. Validity is presence only: every field must be a non-empty trimmed
// string. Card data is never checked beyond presence; the payment itself is
// simulated.
type Form struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	State      string
	ZipCode    string
	CardNumber string
	CardExpiry string
	CardCVC    string
}

// Validate returns a map of wire field name to message for every missing
// field. An empty map means the form is valid.
func (f Form) Validate() map[string]string {
	fields := map[string]string{}
	require := func(name, value, label string) {
		if strings.TrimSpace(value) == "" {
			fields[name] = label + " is required"
		}
	}
	require("firstName", f.FirstName, "First name")
	require("lastName", f.LastName, "Last name")
	require("email", f.Email, "Email")
	require("phone", f.Phone, "Phone")
	require("address", f.Address, "Address")
	require("city", f.City, "City")
	require("state", f.State, "State")
	require("zipCode", f.ZipCode, "ZIP code")
	require("cardNumber", f.CardNumber, "Card number")
	require("cardExpiry", f.CardExpiry, "Expiry date")
	require("cardCVC", f.CardCVC, "CVC")
	return fields
}

// Receipt is the result of a finalized order. Items and Totals reflect the
// cart as captured before it was cleared.
type Receipt struct {
	OrderID  string
	PlacedAt time.Time
	Items    []cart.Item
	Totals   Totals
}

// Service runs checkout finalization against a cart store.
type Service struct {
	store *cart.Store
	delay time.Duration

	// Injected for deterministic tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewService creates a checkout Service. delay is the simulated payment
// round-trip duration.
func NewService(store *cart.Store, delay time.Duration) *Service {
	return &Service{
		store: store,
		delay: delay,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Finalize places the order: it validates the form, takes an exclusive lease
// on the cart so no mutation can interleave with the simulated payment
// window, waits the fixed delay, captures totals from the leased snapshot,
// generates the order identifier, and clears the cart.
//
// There is no cancellation path: once the payment simulation starts it always
// runs to completion, so ctx is used for logging only.
func (s *Service) Finalize(ctx context.Context, form Form) (*Receipt, error) {
	if fields := form.Validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	lease := s.store.Acquire()
	defer lease.Release()

	snap := lease.Snapshot()
	if snap.Empty() {
		return nil, ErrEmptyCart
	}

	s.sleep(s.delay)

	// Totals must come from the leased snapshot, before the clear below.
	totals := CalculateTotals(snap)
	placedAt := s.now()
	orderID := orderIDPrefix + strconv.FormatInt(placedAt.UnixMilli(), 10)

	lease.Clear()

	zctx.From(ctx).Info("Order finalized",
		zap.String("order_id", orderID),
		zap.Int("items", snap.TotalItems()),
		zap.String("total", totals.Total.StringFixed(2)),
	)

	return &Receipt{
		OrderID:  orderID,
		PlacedAt: placedAt,
		Items:    snap.Items,
		Totals:   totals,
	}, nil
}
