package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/models"
)

func TestCheckoutWithoutCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	orders := NewOrderService(db, carts)
	userID := uuid.New()

	_, err := orders.Checkout(userID)
	require.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error)
	require.Zero(t, count)
}

func TestCheckoutEmptiedCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	orders := NewOrderService(db, carts)
	userID := uuid.New()

	_, err := carts.AddItem(userID, 1)
	require.NoError(t, err)
	_, err = orders.Checkout(userID)
	require.NoError(t, err)

	// The cart document survives checkout with zero items; a second
	// checkout is rejected, not silently ignored.
	cart, err := carts.Get(userID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Empty(t, cart.Items)

	_, err = orders.Checkout(userID)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutSnapshotsCartAndClearsIt(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	orders := NewOrderService(db, carts)
	userID := uuid.New()

	_, err := carts.AddItem(userID, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(userID, 1)
	require.NoError(t, err)

	order, err := orders.Checkout(userID)
	require.NoError(t, err)
	require.Equal(t, "19.98", order.SubTotal.String())
	require.Len(t, order.Items, 1)
	require.Equal(t, 1, order.Items[0].ProductID)
	require.Equal(t, 2, order.Items[0].Quantity)

	cart, err := carts.Get(userID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)

	listed, err := orders.List(userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, order.ID, listed[0].ID)
}

func TestCheckoutUsesPriceAtAddTime(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	userID := uuid.New()

	_, err := carts.AddItem(userID, 1)
	require.NoError(t, err)

	// The catalog is repriced after the add; the line keeps its snapshot.
	repriced := catalog.New([]catalog.Item{
		{ID: 1, Name: "Honeycrisp Apples", Price: price(t, "99.99"), Category: "fruits"},
	}, nil, nil)
	orders := NewOrderService(db, NewCartService(db, repriced))

	order, err := orders.Checkout(userID)
	require.NoError(t, err)
	require.Equal(t, "9.99", order.SubTotal.String())
}

func TestListOrdersOldestFirstAndScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	orders := NewOrderService(db, carts)
	userID := uuid.New()
	otherID := uuid.New()

	_, err := carts.AddItem(userID, 1)
	require.NoError(t, err)
	first, err := orders.Checkout(userID)
	require.NoError(t, err)

	_, err = carts.AddItem(userID, 7)
	require.NoError(t, err)
	second, err := orders.Checkout(userID)
	require.NoError(t, err)

	_, err = carts.AddItem(otherID, 9)
	require.NoError(t, err)
	_, err = orders.Checkout(otherID)
	require.NoError(t, err)

	listed, err := orders.List(userID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, first.ID, listed[0].ID)
	require.Equal(t, second.ID, listed[1].ID)
}

func TestGetOrderHidesOwnershipMismatch(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	orders := NewOrderService(db, carts)
	owner := uuid.New()
	stranger := uuid.New()

	_, err := carts.AddItem(owner, 1)
	require.NoError(t, err)
	order, err := orders.Checkout(owner)
	require.NoError(t, err)

	found, err := orders.Get(owner, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, found.ID)

	// A stranger's lookup and a bogus id are indistinguishable.
	_, err = orders.Get(stranger, order.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)
	_, err = orders.Get(owner, uuid.New())
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReorderMergesByProductID(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	orders := NewOrderService(db, carts)
	userID := uuid.New()

	// Order snapshot: product 7 x2, product 9 x1.
	_, err := carts.AddItem(userID, 7)
	require.NoError(t, err)
	_, err = carts.AddItem(userID, 7)
	require.NoError(t, err)
	_, err = carts.AddItem(userID, 9)
	require.NoError(t, err)
	order, err := orders.Checkout(userID)
	require.NoError(t, err)

	// Current cart: product 7 x3.
	for i := 0; i < 3; i++ {
		_, err = carts.AddItem(userID, 7)
		require.NoError(t, err)
	}

	cart, err := orders.Reorder(userID, order.ID)
	require.NoError(t, err)

	quantities := map[int]int{}
	for _, line := range cart.Items {
		quantities[line.ProductID] = line.Quantity
	}
	require.Equal(t, map[int]int{7: 5, 9: 1}, quantities)

	// The historical order is untouched.
	reloaded, err := orders.Get(userID, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.Items, reloaded.Items)
}

func TestReorderHidesOwnershipMismatch(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	orders := NewOrderService(db, carts)
	owner := uuid.New()
	stranger := uuid.New()

	_, err := carts.AddItem(owner, 1)
	require.NoError(t, err)
	order, err := orders.Checkout(owner)
	require.NoError(t, err)

	_, err = orders.Reorder(stranger, order.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)
	_, err = orders.Reorder(owner, uuid.New())
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestReorderFillsEmptiedCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db, testCatalog(t))
	orders := NewOrderService(db, carts)
	userID := uuid.New()

	_, err := carts.AddItem(userID, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(userID, 9)
	require.NoError(t, err)
	order, err := orders.Checkout(userID)
	require.NoError(t, err)

	cart, err := orders.Reorder(userID, order.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	require.Equal(t, []models.LineItem(order.Items), []models.LineItem(cart.Items))
}
