package query

import (
	"testing"
	"time"

	"github.com/example/storefront-cart/internal/infrastructure/store/mocks"
	"github.com/example/storefront-cart/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryHandler() (*Handler, *mocks.MockReadStore) {
	readStore := mocks.NewMockReadStore()
	return NewHandler(readStore, "USD"), readStore
}

// ============================================
// Product Query Tests
// ============================================

func TestHandler_GetProduct(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(readmodel.CollectionProducts, "prod-1", &readmodel.ProductReadModel{
		ID:   "prod-1",
		Name: "Basic Tee",
	})

	product, err := handler.GetProduct("prod-1")
	require.NoError(t, err)
	assert.Equal(t, "Basic Tee", product.Name)
}

func TestHandler_GetProduct_NotFound(t *testing.T) {
	handler, _ := newTestQueryHandler()

	_, err := handler.GetProduct("prod-unknown")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestHandler_ListProducts(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(readmodel.CollectionProducts, "prod-1", &readmodel.ProductReadModel{ID: "prod-1"})
	readStore.SetData(readmodel.CollectionProducts, "prod-2", &readmodel.ProductReadModel{ID: "prod-2"})

	products := handler.ListProducts()
	assert.Len(t, products, 2)
}

func TestHandler_ListProducts_Empty(t *testing.T) {
	handler, _ := newTestQueryHandler()
	assert.Empty(t, handler.ListProducts())
}

// ============================================
// Cart Query Tests
// ============================================

func TestHandler_GetCart(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(readmodel.CollectionCarts, "cart-s1", &readmodel.CartReadModel{
		ID:        "cart-s1",
		SessionID: "s1",
		Lines: []readmodel.CartLineReadModel{
			{Key: "V1:ONE_TIME", Quantity: 2, UnitAmount: 2000, LineTotal: 4000, CurrencyCode: "USD"},
		},
		ItemCount:    2,
		Subtotal:     4000,
		CurrencyCode: "USD",
	})

	c := handler.GetCart("s1")
	assert.Equal(t, 2, c.ItemCount)
	assert.Equal(t, 4000, c.Subtotal)
}

func TestHandler_GetCart_MissingCartReadsEmpty(t *testing.T) {
	handler, _ := newTestQueryHandler()

	c := handler.GetCart("s1")
	assert.Equal(t, "cart-s1", c.ID)
	assert.Equal(t, "s1", c.SessionID)
	assert.Empty(t, c.Lines)
	assert.Equal(t, 0, c.ItemCount)
	assert.Equal(t, "USD", c.CurrencyCode)
}

func TestHandler_GetCart_EmptiedCartFallsBackToDefaultCurrency(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(readmodel.CollectionCarts, "cart-s1", &readmodel.CartReadModel{
		ID:        "cart-s1",
		SessionID: "s1",
		Lines:     []readmodel.CartLineReadModel{},
	})

	c := handler.GetCart("s1")
	assert.Equal(t, "USD", c.CurrencyCode)
}

// ============================================
// Checkout Query Tests
// ============================================

func TestHandler_GetCheckout(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(readmodel.CollectionCheckouts, "cart-s1", &readmodel.CheckoutReadModel{
		CartID:    "cart-s1",
		SessionID: "s1",
		Subtotal:  4000,
	})

	co, ok := handler.GetCheckout("s1")
	require.True(t, ok)
	assert.Equal(t, 4000, co.Subtotal)
}

func TestHandler_GetCheckout_NotFound(t *testing.T) {
	handler, _ := newTestQueryHandler()
	_, ok := handler.GetCheckout("s1")
	assert.False(t, ok)
}

// ============================================
// Notification Query Tests
// ============================================

func TestHandler_PopNotification(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(readmodel.CollectionNotifications, "s1", &readmodel.NotificationReadModel{
		SessionID: "s1",
		Message:   "Successfully checked out",
		CreatedAt: time.Now(),
	})

	notice, ok := handler.PopNotification("s1")
	require.True(t, ok)
	assert.Equal(t, "Successfully checked out", notice.Message)

	// Shown once, then gone
	_, ok = handler.PopNotification("s1")
	assert.False(t, ok)
}

func TestHandler_PopNotification_NonePending(t *testing.T) {
	handler, _ := newTestQueryHandler()
	_, ok := handler.PopNotification("s1")
	assert.False(t, ok)
}
