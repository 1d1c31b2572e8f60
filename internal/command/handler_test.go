package command

import (
	"context"
	"net/url"
	"testing"

	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/domain/catalog"
	"github.com/example/storefront-cart/internal/infrastructure/store/mocks"
	"github.com/example/storefront-cart/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Handler, *mocks.MockEventStore, *mocks.MockReadStore) {
	eventStore := mocks.NewMockEventStore()
	readStore := mocks.NewMockReadStore()
	handler := NewHandler(
		catalog.NewService(eventStore),
		cart.NewService(eventStore),
		readStore,
		"https://pay.example.com/session",
		"/checkout/callback",
	)
	return handler, eventStore, readStore
}

func seedProduct(readStore *mocks.MockReadStore) {
	readStore.SetData(readmodel.CollectionProducts, "prod-1", &readmodel.ProductReadModel{
		ID:   "prod-1",
		Name: "Basic Tee",
		Variants: []catalog.Variant{
			{
				ID:        "V1",
				Name:      "Medium / Black",
				Available: true,
				Options: []catalog.OptionValue{
					{Name: "Size", Value: "M"},
					{Name: "Color", Value: "Black"},
				},
				Prices: []catalog.PriceOption{
					{ID: "ONE_TIME", Amount: 2000, CurrencyCode: "USD"},
					{ID: "MONTHLY", Interval: catalog.IntervalMonth, Amount: 1800, CurrencyCode: "USD"},
				},
			},
			{
				ID:        "V2",
				Name:      "Large / Black",
				Available: false,
				Options: []catalog.OptionValue{
					{Name: "Size", Value: "L"},
					{Name: "Color", Value: "Black"},
				},
				Prices: []catalog.PriceOption{
					{ID: "ONE_TIME", Amount: 2000, CurrencyCode: "USD"},
				},
			},
		},
	})
}

// ============================================
// AddCartItem Tests
// ============================================

func TestHandler_AddCartItem_SnapshotsResolvedPrice(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()
	seedProduct(readStore)
	ctx := context.Background()

	err := handler.AddCartItem(ctx, AddCartItem{
		SessionID:     "session-1",
		ProductID:     "prod-1",
		Selections:    map[string]string{"Size": "M", "Color": "Black"},
		PriceOptionID: "MONTHLY",
		Quantity:      2,
	})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, cart.EventItemAdded, eventStore.AppendCalls[0].EventType)

	data := eventStore.AppendCalls[0].Data.(cart.ItemAdded)
	assert.Equal(t, "prod-1", data.Line.ProductID)
	assert.Equal(t, "Basic Tee", data.Line.ProductName)
	assert.Equal(t, "V1", data.Line.VariantID)
	assert.Equal(t, "MONTHLY", data.Line.PriceOptionID)
	assert.Equal(t, 2, data.Line.Quantity)
	assert.Equal(t, 1800, data.Line.UnitAmount)
	assert.Equal(t, "USD", data.Line.CurrencyCode)
}

func TestHandler_AddCartItem_DefaultsVariantAndPrice(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()
	seedProduct(readStore)
	ctx := context.Background()

	// No selections and no price tier: first available variant, first price
	err := handler.AddCartItem(ctx, AddCartItem{
		SessionID: "session-1",
		ProductID: "prod-1",
		Quantity:  1,
	})

	require.NoError(t, err)
	data := eventStore.AppendCalls[0].Data.(cart.ItemAdded)
	assert.Equal(t, "V1", data.Line.VariantID)
	assert.Equal(t, "ONE_TIME", data.Line.PriceOptionID)
	assert.Equal(t, 2000, data.Line.UnitAmount)
}

func TestHandler_AddCartItem_ProductNotFound(t *testing.T) {
	handler, eventStore, _ := newTestHandler()
	ctx := context.Background()

	err := handler.AddCartItem(ctx, AddCartItem{
		SessionID: "session-1",
		ProductID: "prod-unknown",
		Quantity:  1,
	})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestHandler_AddCartItem_NoVariantMatches(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()
	seedProduct(readStore)
	ctx := context.Background()

	err := handler.AddCartItem(ctx, AddCartItem{
		SessionID:  "session-1",
		ProductID:  "prod-1",
		Selections: map[string]string{"Size": "XS"},
		Quantity:   1,
	})

	assert.ErrorIs(t, err, ErrVariantNotResolved)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestHandler_AddCartItem_UnavailableVariant(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()
	seedProduct(readStore)
	ctx := context.Background()

	err := handler.AddCartItem(ctx, AddCartItem{
		SessionID:  "session-1",
		ProductID:  "prod-1",
		Selections: map[string]string{"Size": "L"},
		Quantity:   1,
	})

	assert.ErrorIs(t, err, ErrVariantUnavailable)
	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// BeginCheckout Tests
// ============================================

func TestHandler_BeginCheckout_ReturnsRedirectURL(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()
	seedProduct(readStore)
	ctx := context.Background()

	err := handler.AddCartItem(ctx, AddCartItem{
		SessionID: "session-1",
		ProductID: "prod-1",
		Quantity:  2,
	})
	require.NoError(t, err)

	redirectURL, err := handler.BeginCheckout(ctx, BeginCheckout{
		SessionID: "session-1",
		Email:     "shopper@example.com",
	})
	require.NoError(t, err)

	u, err := url.Parse(redirectURL)
	require.NoError(t, err)
	assert.Equal(t, "pay.example.com", u.Host)
	assert.Equal(t, "V1:ONE_TIME:2", u.Query().Get("cart"))
	assert.Equal(t, "/checkout/callback", u.Query().Get("return_to"))

	// The handoff is recorded with the same URL and the shopper's email
	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, cart.EventCheckoutStarted, eventStore.AppendCalls[1].EventType)
	data := eventStore.AppendCalls[1].Data.(cart.CheckoutStarted)
	assert.Equal(t, redirectURL, data.CheckoutURL)
	assert.Equal(t, "shopper@example.com", data.Email)
	assert.Equal(t, 4000, data.Totals.Subtotal)
}

func TestHandler_BeginCheckout_EmptyCart(t *testing.T) {
	handler, eventStore, _ := newTestHandler()
	ctx := context.Background()

	_, err := handler.BeginCheckout(ctx, BeginCheckout{SessionID: "session-1"})

	assert.ErrorIs(t, err, cart.ErrEmptyCart)
	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// CompleteCheckout Tests
// ============================================

func TestHandler_CompleteCheckout_ClearsCart(t *testing.T) {
	handler, eventStore, readStore := newTestHandler()
	seedProduct(readStore)
	ctx := context.Background()

	err := handler.AddCartItem(ctx, AddCartItem{SessionID: "session-1", ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)

	err = handler.CompleteCheckout(ctx, CompleteCheckout{SessionID: "session-1"})
	require.NoError(t, err)

	assert.Equal(t, cart.EventCheckoutCompleted, eventStore.AppendCalls[1].EventType)
}

// ============================================
// Catalog Command Tests
// ============================================

func TestHandler_UpsertProduct(t *testing.T) {
	handler, eventStore, _ := newTestHandler()
	ctx := context.Background()

	product, err := handler.UpsertProduct(ctx, UpsertProduct{
		Product: catalog.Product{
			Name: "Basic Tee",
			Variants: []catalog.Variant{
				{ID: "V1", Available: true, Prices: []catalog.PriceOption{{ID: "ONE_TIME", Amount: 2000, CurrencyCode: "USD"}}},
			},
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, catalog.EventProductUpserted, eventStore.AppendCalls[0].EventType)
}

func TestHandler_DeleteProduct_NotFound(t *testing.T) {
	handler, _, _ := newTestHandler()
	ctx := context.Background()

	err := handler.DeleteProduct(ctx, DeleteProduct{ProductID: "missing"})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}
