package query

import (
	"errors"
	"log"

	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/readmodel"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

type Handler struct {
	readStore       store.ReadStoreInterface
	defaultCurrency string
}

func NewHandler(readStore store.ReadStoreInterface, defaultCurrency string) *Handler {
	return &Handler{readStore: readStore, defaultCurrency: defaultCurrency}
}

func (h *Handler) GetProduct(productID string) (*readmodel.ProductReadModel, error) {
	data, ok := h.readStore.Get(readmodel.CollectionProducts, productID)
	if !ok {
		return nil, ErrProductNotFound
	}
	product, ok := data.(*readmodel.ProductReadModel)
	if !ok {
		log.Printf("[Query] Unexpected type in products collection for %s", productID)
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (h *Handler) ListProducts() []*readmodel.ProductReadModel {
	all := h.readStore.GetAll(readmodel.CollectionProducts)
	products := make([]*readmodel.ProductReadModel, 0, len(all))
	for _, data := range all {
		if product, ok := data.(*readmodel.ProductReadModel); ok {
			products = append(products, product)
		}
	}
	return products
}

// GetCart never fails: a session with no cart events yet reads as an empty
// cart carrying the configured default currency.
func (h *Handler) GetCart(sessionID string) *readmodel.CartReadModel {
	cartID := cart.GetCartID(sessionID)
	data, ok := h.readStore.Get(readmodel.CollectionCarts, cartID)
	if ok {
		if c, ok := data.(*readmodel.CartReadModel); ok {
			if c.CurrencyCode == "" {
				c.CurrencyCode = h.defaultCurrency
			}
			return c
		}
	}
	return &readmodel.CartReadModel{
		ID:           cartID,
		SessionID:    sessionID,
		Lines:        []readmodel.CartLineReadModel{},
		CurrencyCode: h.defaultCurrency,
	}
}

func (h *Handler) GetCheckout(sessionID string) (*readmodel.CheckoutReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.CollectionCheckouts, cart.GetCartID(sessionID))
	if !ok {
		return nil, false
	}
	checkout, ok := data.(*readmodel.CheckoutReadModel)
	return checkout, ok
}

// PopNotification returns the pending notice for the session and clears it,
// so each notice is shown at most once.
func (h *Handler) PopNotification(sessionID string) (*readmodel.NotificationReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.CollectionNotifications, sessionID)
	if !ok {
		return nil, false
	}
	notification, ok := data.(*readmodel.NotificationReadModel)
	if !ok {
		return nil, false
	}
	h.readStore.Delete(readmodel.CollectionNotifications, sessionID)
	return notification, true
}
