package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/fulfillment-api/models"
	"github.com/stocklane/fulfillment-api/services"
	"github.com/stocklane/fulfillment-api/store"
)

func TestAddItem_CreatesCartAndLineItem(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Wireless Headphones", Quantity: 100})

	cart, err := carts.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, productID, cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// Staging reserves nothing.
	assert.Equal(t, 100, productQuantity(t, st, productID))
}

func TestAddItem_AccumulatesExistingLine(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Running Shoes", Quantity: 10})

	_, err := carts.AddItem(ctx, userID, productID, 4)
	require.NoError(t, err)
	cart, err := carts.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1, "same product must accumulate, not duplicate")
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestAddItem_AccumulatedTotalExceedsStock(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Laptop", Quantity: 10})

	_, err := carts.AddItem(ctx, userID, productID, 6)
	require.NoError(t, err)

	_, err = carts.AddItem(ctx, userID, productID, 5)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, productID, stockErr.ProductID)
	assert.Equal(t, 11, stockErr.Requested, "the check runs against the accumulated total")
	assert.Equal(t, 10, stockErr.Available)

	cart, err := carts.GetActiveCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 6, cart.Items[0].Quantity)
}

func TestAddItem_ExactStockIsAllowed(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Coffee Maker", Quantity: 5})

	cart, err := carts.AddItem(ctx, userID, productID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})

	_, err := carts.AddItem(ctx, userID, 999, 1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	// The failed add must not leave an empty cart behind.
	cart, err := carts.GetActiveCart(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Yoga Mat", Quantity: 75})

	_, err := carts.AddItem(ctx, userID, productID, 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	_, err = carts.AddItem(ctx, userID, productID, -3)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
}

func TestSetItemQuantity_OverwritesInsteadOfAccumulating(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Laptop", Quantity: 30})

	_, err := carts.AddItem(ctx, userID, productID, 8)
	require.NoError(t, err)

	cart, err := carts.SetItemQuantity(ctx, userID, productID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestSetItemQuantity_RequiresExistingCartAndLine(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	p1 := st.Seed(models.Product{Name: "Wireless Headphones", Quantity: 100})
	p2 := st.Seed(models.Product{Name: "Running Shoes", Quantity: 50})

	_, err := carts.SetItemQuantity(ctx, userID, p1, 1)
	assert.ErrorIs(t, err, services.ErrCartNotFound)

	_, err = carts.AddItem(ctx, userID, p1, 1)
	require.NoError(t, err)

	_, err = carts.SetItemQuantity(ctx, userID, p2, 1)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)
}

func TestSetItemQuantity_BoundaryAgainstStock(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Coffee Maker", Quantity: 25})

	_, err := carts.AddItem(ctx, userID, productID, 1)
	require.NoError(t, err)

	cart, err := carts.SetItemQuantity(ctx, userID, productID, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, cart.Items[0].Quantity)

	_, err = carts.SetItemQuantity(ctx, userID, productID, 26)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 26, stockErr.Requested)
	assert.Equal(t, 25, stockErr.Available)

	cart, err = carts.GetActiveCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 25, cart.Items[0].Quantity, "rejected update must leave the line unchanged")
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	p1 := st.Seed(models.Product{Name: "Wireless Headphones", Quantity: 100})
	p2 := st.Seed(models.Product{Name: "Running Shoes", Quantity: 50})

	_, err := carts.RemoveItem(ctx, userID, p1)
	assert.ErrorIs(t, err, services.ErrCartNotFound)

	_, err = carts.AddItem(ctx, userID, p1, 2)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, userID, p2, 1)
	require.NoError(t, err)

	cart, err := carts.RemoveItem(ctx, userID, p1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, p2, cart.Items[0].ProductID)

	_, err = carts.RemoveItem(ctx, userID, p1)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)
}

func TestRetireCart_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Yoga Mat", Quantity: 75})

	// No cart yet: retiring is a quiet no-op.
	require.NoError(t, carts.RetireCart(ctx, userID))

	_, err := carts.AddItem(ctx, userID, productID, 1)
	require.NoError(t, err)

	require.NoError(t, carts.RetireCart(ctx, userID))
	cart, err := carts.GetActiveCart(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, cart)

	require.NoError(t, carts.RetireCart(ctx, userID))
}

func TestRetiredCartStartsFresh(t *testing.T) {
	ctx := context.Background()
	st, carts, _ := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Laptop", Quantity: 30})

	old, err := carts.AddItem(ctx, userID, productID, 5)
	require.NoError(t, err)
	require.NoError(t, carts.RetireCart(ctx, userID))

	fresh, err := carts.AddItem(ctx, userID, productID, 1)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID, "a new staging area must replace the retired one")
	require.Len(t, fresh.Items, 1)
	assert.Equal(t, 1, fresh.Items[0].Quantity)
}

// The advisory nature of the cart-side check: an add that passed can
// still be rejected at placement once intervening commits drained the
// ledger.
func TestStaleCartFailsAtPlacement(t *testing.T) {
	ctx := context.Background()
	st, carts, orders := newFixture(t)

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})
	productID := st.Seed(models.Product{Name: "Coffee Maker", Quantity: 5})

	_, err := carts.AddItem(ctx, userID, productID, 5)
	require.NoError(t, err)

	drained, err := st.DecrementStock(ctx, []store.StockAdjustment{{ProductID: productID, Quantity: 2}})
	require.NoError(t, err)
	require.EqualValues(t, 1, drained)

	_, err = orders.PlaceOrder(ctx, userID)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 3, productQuantity(t, st, productID))
}
