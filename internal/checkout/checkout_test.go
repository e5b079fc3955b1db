package checkout

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/cart"
	"github.com/xenking/storefront/internal/catalog"
)

func validForm() Form {
	return Form{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Phone:      "555-0100",
		Address:    "1 Analytical Way",
		City:       "London",
		State:      "LDN",
		ZipCode:    "E1 6AN",
		CardNumber: "4242424242424242",
		CardExpiry: "12/30",
		CardCVC:    "123",
	}
}

func newTestService(store *cart.Store) *Service {
	svc := NewService(store, 2*time.Second)
	svc.now = func() time.Time {
		return time.Unix(1700000000, 123*int64(time.Millisecond))
	}
	svc.sleep = func(time.Duration) {}
	return svc
}

func addProduct(store *cart.Store, id int, price string) {
	store.Add(catalog.Product{
		ID:    id,
		Title: "Product",
		Price: decimal.RequireFromString(price),
	})
}

func TestFormValidate_AllMissing(t *testing.T) {
	fields := Form{}.Validate()

	assert.Len(t, fields, 11)
	assert.Equal(t, "First name is required", fields["firstName"])
	assert.Equal(t, "ZIP code is required", fields["zipCode"])
	assert.Equal(t, "CVC is required", fields["cardCVC"])
}

func TestFormValidate_WhitespaceIsMissing(t *testing.T) {
	f := validForm()
	f.Email = "   "

	fields := f.Validate()
	require.Len(t, fields, 1)
	assert.Equal(t, "Email is required", fields["email"])
}

func TestFormValidate_Valid(t *testing.T) {
	assert.Empty(t, validForm().Validate())
}

func TestFinalize_InvalidForm(t *testing.T) {
	store := cart.NewStore()
	addProduct(store, 1, "10.00")
	svc := newTestService(store)

	f := validForm()
	f.CardNumber = ""

	_, err := svc.Finalize(context.Background(), f)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "cardNumber")
	assert.Equal(t, 1, store.TotalItems(), "cart untouched on validation failure")
}

func TestFinalize_EmptyCart(t *testing.T) {
	svc := newTestService(cart.NewStore())

	_, err := svc.Finalize(context.Background(), validForm())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestFinalize_Success(t *testing.T) {
	store := cart.NewStore()
	addProduct(store, 1, "100")
	svc := newTestService(store)

	receipt, err := svc.Finalize(context.Background(), validForm())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(receipt.OrderID, "ORD-"), "order id %q", receipt.OrderID)
	assert.Equal(t, "ORD-1700000000123", receipt.OrderID)

	assert.True(t, receipt.Totals.Subtotal.Equal(decimal.RequireFromString("100")))
	assert.True(t, receipt.Totals.Tax.Equal(decimal.RequireFromString("10")))
	assert.True(t, receipt.Totals.Shipping.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, receipt.Totals.Total.Equal(decimal.RequireFromString("120.00")))

	require.Len(t, receipt.Items, 1)
	assert.Equal(t, 0, store.TotalItems(), "cart cleared after finalization")
}

func TestFinalize_TotalsCapturedBeforeClear(t *testing.T) {
	store := cart.NewStore()
	addProduct(store, 1, "10")
	addProduct(store, 2, "5")
	svc := newTestService(store)

	receipt, err := svc.Finalize(context.Background(), validForm())
	require.NoError(t, err)

	assert.True(t, receipt.Totals.Subtotal.Equal(decimal.RequireFromString("15")))
	assert.Len(t, receipt.Items, 2)
}

func TestFinalize_WaitsProcessingDelay(t *testing.T) {
	store := cart.NewStore()
	addProduct(store, 1, "10")

	svc := NewService(store, 2*time.Second)
	var slept time.Duration
	svc.sleep = func(d time.Duration) { slept = d }
	svc.now = time.Now

	_, err := svc.Finalize(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, slept)
}

func TestFinalize_HoldsLeaseDuringDelay(t *testing.T) {
	store := cart.NewStore()
	addProduct(store, 1, "100")

	svc := NewService(store, 0)
	svc.now = time.Now
	mutated := make(chan struct{})
	svc.sleep = func(time.Duration) {
		// Attempt a mutation mid-finalization from another goroutine; it must
		// block until the lease is released.
		go func() {
			addProduct(store, 2, "5")
			close(mutated)
		}()
		select {
		case <-mutated:
			t.Error("mutation interleaved with finalization")
		case <-time.After(50 * time.Millisecond):
		}
	}

	receipt, err := svc.Finalize(context.Background(), validForm())
	require.NoError(t, err)

	// Totals reflect the cart as of finalization start.
	assert.True(t, receipt.Totals.Subtotal.Equal(decimal.RequireFromString("100")))

	select {
	case <-mutated:
	case <-time.After(time.Second):
		t.Fatal("blocked mutation never completed")
	}
	assert.Equal(t, 1, store.TotalItems(), "post-release add lands in the cleared cart")
}

func TestFinalize_SecondCallOnEmptiedCart(t *testing.T) {
	store := cart.NewStore()
	addProduct(store, 1, "10")
	svc := newTestService(store)

	_, err := svc.Finalize(context.Background(), validForm())
	require.NoError(t, err)

	_, err = svc.Finalize(context.Background(), validForm())
	assert.True(t, errors.Is(err, ErrEmptyCart))
}
