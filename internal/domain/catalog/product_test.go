package catalog

import (
	"context"
	"testing"

	"github.com/example/storefront-cart/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func testProduct() Product {
	return Product{
		ID:   "prod-1",
		Name: "Basic Tee",
		Variants: []Variant{
			{
				ID:        "V1",
				Name:      "Medium",
				Available: true,
				Prices:    []PriceOption{{ID: "ONE_TIME", Amount: 2000, CurrencyCode: "USD"}},
			},
		},
	}
}

// ============================================
// Upsert Tests
// ============================================

func TestService_Upsert_Success(t *testing.T) {
	service, eventStore := newTestCatalogService()
	ctx := context.Background()

	product, err := service.Upsert(ctx, testProduct())

	require.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	assert.False(t, product.UpdatedAt.IsZero())

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventProductUpserted, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, AggregateType, eventStore.AppendCalls[0].AggregateType)
	assert.Equal(t, "prod-1", eventStore.AppendCalls[0].AggregateID)
}

func TestService_Upsert_AssignsIDWhenMissing(t *testing.T) {
	service, _ := newTestCatalogService()
	ctx := context.Background()

	p := testProduct()
	p.ID = ""
	product, err := service.Upsert(ctx, p)

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
}

func TestService_Upsert_EmptyName(t *testing.T) {
	service, eventStore := newTestCatalogService()
	ctx := context.Background()

	p := testProduct()
	p.Name = ""
	_, err := service.Upsert(ctx, p)

	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Upsert_NoVariants(t *testing.T) {
	service, eventStore := newTestCatalogService()
	ctx := context.Background()

	p := testProduct()
	p.Variants = nil
	_, err := service.Upsert(ctx, p)

	assert.ErrorIs(t, err, ErrNoVariants)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Upsert_VariantWithoutPrices(t *testing.T) {
	service, eventStore := newTestCatalogService()
	ctx := context.Background()

	p := testProduct()
	p.Variants[0].Prices = nil
	_, err := service.Upsert(ctx, p)

	assert.ErrorIs(t, err, ErrNoPrices)
	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// Delete Tests
// ============================================

func TestService_Delete_Success(t *testing.T) {
	service, eventStore := newTestCatalogService()
	ctx := context.Background()

	_, err := service.Upsert(ctx, testProduct())
	require.NoError(t, err)

	err = service.Delete(ctx, "prod-1")
	require.NoError(t, err)

	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, EventProductDeleted, eventStore.AppendCalls[1].EventType)
}

func TestService_Delete_NotFound(t *testing.T) {
	service, eventStore := newTestCatalogService()
	ctx := context.Background()

	err := service.Delete(ctx, "prod-unknown")

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, eventStore.AppendCalls)
}
