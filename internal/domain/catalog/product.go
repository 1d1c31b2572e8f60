package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Product"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidName     = errors.New("name is required")
	ErrNoVariants      = errors.New("product has no variants")
	ErrNoPrices        = errors.New("variant has no price options")
)

// Billing intervals for recurring price options.
const (
	IntervalDay   = "DAY"
	IntervalWeek  = "WEEK"
	IntervalMonth = "MONTH"
	IntervalYear  = "YEAR"
)

// PriceOption is one purchasable pricing tier for a variant. A one-time
// purchase has an empty Interval; a subscription carries the billing interval
// it renews on. Amounts are in currency minor units.
type PriceOption struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Interval             string `json:"interval,omitempty"`
	IntervalCount        int    `json:"interval_count,omitempty"`
	Amount               int    `json:"amount"`
	AmountBeforeDiscount int    `json:"amount_before_discount,omitempty"`
	HasDiscount          bool   `json:"has_discount,omitempty"`
	CurrencyCode         string `json:"currency_code"`
}

// OptionValue is a single chosen value for a named option, e.g. Size -> M.
type OptionValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant is a specific purchasable configuration of a product.
type Variant struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	SKU       string        `json:"sku,omitempty"`
	Available bool          `json:"available"`
	Options   []OptionValue `json:"options"`
	Prices    []PriceOption `json:"prices"`
}

// Option describes one axis of variation and its values, in display order.
type Option struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Values   []string `json:"values"`
}

// Product is a catalog entry as supplied by the upstream catalog provider.
// The service never mutates catalog data; it records what it was given.
type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	Variants    []Variant `json:"variants"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Upsert records the catalog provider's current view of a product. A product
// with no variants is a data-integrity failure upstream and is rejected
// rather than stored.
func (s *Service) Upsert(ctx context.Context, p Product) (*Product, error) {
	if p.Name == "" {
		return nil, ErrInvalidName
	}
	if len(p.Variants) == 0 {
		return nil, ErrNoVariants
	}
	for _, v := range p.Variants {
		if len(v.Prices) == 0 {
			return nil, ErrNoPrices
		}
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.UpdatedAt = time.Now()

	event := ProductUpserted{
		ProductID:   p.ID,
		Handle:      p.Handle,
		Name:        p.Name,
		Description: p.Description,
		Options:     p.Options,
		Variants:    p.Variants,
		UpsertedAt:  p.UpdatedAt,
	}

	_, err := s.eventStore.Append(ctx, p.ID, AggregateType, EventProductUpserted, event)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Delete removes a product from the catalog
func (s *Service) Delete(ctx context.Context, productID string) error {
	events := s.eventStore.GetEvents(productID)
	if len(events) == 0 {
		return ErrProductNotFound
	}

	event := ProductDeleted{
		ProductID: productID,
		DeletedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductDeleted, event)
	return err
}
