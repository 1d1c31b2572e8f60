package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/domain/catalog"
	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/readmodel"
)

// CheckoutSuccessMessage is the transient notice shown to the shopper after
// the external provider signals success.
const CheckoutSuccessMessage = "Successfully checked out"

type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case catalog.AggregateType:
		return p.handleCatalogEvent(event)
	case cart.AggregateType:
		return p.handleCartEvent(event)
	}

	return nil
}

func (p *Projector) handleCatalogEvent(event store.Event) error {
	switch event.EventType {
	case catalog.EventProductUpserted:
		var e catalog.ProductUpserted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}

		createdAt := e.UpsertedAt
		if current, ok := p.readStore.Get(readmodel.CollectionProducts, e.ProductID); ok {
			createdAt = current.(*readmodel.ProductReadModel).CreatedAt
		}
		p.readStore.Set(readmodel.CollectionProducts, e.ProductID, &readmodel.ProductReadModel{
			ID:          e.ProductID,
			Handle:      e.Handle,
			Name:        e.Name,
			Description: e.Description,
			Options:     e.Options,
			Variants:    e.Variants,
			CreatedAt:   createdAt,
			UpdatedAt:   e.UpsertedAt,
		})

	case catalog.EventProductDeleted:
		var e catalog.ProductDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Delete(readmodel.CollectionProducts, e.ProductID)
	}

	return nil
}

func (p *Projector) handleCartEvent(event store.Event) error {
	switch event.EventType {
	case cart.EventItemAdded:
		var e cart.ItemAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}

		updated := p.readStore.Update(readmodel.CollectionCarts, e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			merged := false
			for i := range c.Lines {
				if c.Lines[i].Key == e.Line.Key() {
					c.Lines[i].Quantity += e.Line.Quantity
					merged = true
					break
				}
			}
			if !merged {
				c.Lines = append(c.Lines, lineReadModel(e.Line))
			}
			recalculate(c)
			return c
		})
		if !updated {
			c := &readmodel.CartReadModel{
				ID:        e.CartID,
				SessionID: e.SessionID,
				Lines:     []readmodel.CartLineReadModel{lineReadModel(e.Line)},
			}
			recalculate(c)
			p.readStore.Set(readmodel.CollectionCarts, e.CartID, c)
		}

	case cart.EventItemQuantityChanged:
		var e cart.ItemQuantityChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.CollectionCarts, e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i := range c.Lines {
				if c.Lines[i].Key == e.LineKey {
					if e.Quantity <= 0 {
						c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
					} else {
						c.Lines[i].Quantity = e.Quantity
					}
					break
				}
			}
			recalculate(c)
			return c
		})

	case cart.EventItemRemoved:
		var e cart.ItemRemoved
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.CollectionCarts, e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i := range c.Lines {
				if c.Lines[i].Key == e.LineKey {
					c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
					break
				}
			}
			recalculate(c)
			return c
		})

	case cart.EventCartCleared:
		var e cart.Cleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(readmodel.CollectionCarts, e.CartID, emptyCart(e.CartID, e.SessionID))

	case cart.EventCheckoutStarted:
		var e cart.CheckoutStarted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		lines := make([]readmodel.CartLineReadModel, 0, len(e.Lines))
		for _, li := range e.Lines {
			lines = append(lines, lineReadModel(li))
		}
		p.readStore.Set(readmodel.CollectionCheckouts, e.CartID, &readmodel.CheckoutReadModel{
			CartID:       e.CartID,
			SessionID:    e.SessionID,
			Email:        e.Email,
			Lines:        lines,
			ItemCount:    e.Totals.ItemCount,
			Subtotal:     e.Totals.Subtotal,
			CurrencyCode: e.Totals.CurrencyCode,
			CheckoutURL:  e.CheckoutURL,
			StartedAt:    e.StartedAt,
		})

	case cart.EventCheckoutCompleted:
		var e cart.CheckoutCompleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(readmodel.CollectionCarts, e.CartID, emptyCart(e.CartID, e.SessionID))
		p.readStore.Update(readmodel.CollectionCheckouts, e.CartID, func(current any) any {
			co := current.(*readmodel.CheckoutReadModel)
			co.Completed = true
			co.CompletedAt = e.CompletedAt
			return co
		})
		p.readStore.Set(readmodel.CollectionNotifications, e.SessionID, &readmodel.NotificationReadModel{
			SessionID: e.SessionID,
			Message:   CheckoutSuccessMessage,
			CreatedAt: e.CompletedAt,
		})
	}

	return nil
}

func lineReadModel(li cart.LineItem) readmodel.CartLineReadModel {
	return readmodel.CartLineReadModel{
		Key:           li.Key(),
		ProductID:     li.ProductID,
		ProductName:   li.ProductName,
		VariantID:     li.VariantID,
		PriceOptionID: li.PriceOptionID,
		Quantity:      li.Quantity,
		UnitAmount:    li.UnitAmount,
		CurrencyCode:  li.CurrencyCode,
		Selections:    li.Selections,
	}
}

func emptyCart(cartID, sessionID string) *readmodel.CartReadModel {
	return &readmodel.CartReadModel{
		ID:        cartID,
		SessionID: sessionID,
		Lines:     []readmodel.CartLineReadModel{},
	}
}

// recalculate rederives item count, line totals and subtotal from the lines
func recalculate(c *readmodel.CartReadModel) {
	c.ItemCount = 0
	c.Subtotal = 0
	c.CurrencyCode = ""
	for i := range c.Lines {
		c.Lines[i].LineTotal = c.Lines[i].UnitAmount * c.Lines[i].Quantity
		c.ItemCount += c.Lines[i].Quantity
		c.Subtotal += c.Lines[i].LineTotal
	}
	if len(c.Lines) > 0 {
		c.CurrencyCode = c.Lines[0].CurrencyCode
	}
}
