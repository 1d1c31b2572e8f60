package command

import (
	"context"
	"errors"

	"github.com/example/storefront-cart/internal/checkout"
	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/domain/catalog"
	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/readmodel"
)

var (
	ErrVariantNotResolved = errors.New("no variant matches the given selections")
	ErrVariantUnavailable = errors.New("variant is out of stock")
)

// Handler is the single dispatcher for state-changing commands. Each command
// is an explicit description of the intended transition; the handler resolves
// whatever read models it needs and drives the domain services.
type Handler struct {
	catalogSvc       *catalog.Service
	cartSvc          *cart.Service
	readStore        store.ReadStoreInterface
	checkoutEndpoint string
	returnURL        string
}

func NewHandler(
	catalogSvc *catalog.Service,
	cartSvc *cart.Service,
	readStore store.ReadStoreInterface,
	checkoutEndpoint, returnURL string,
) *Handler {
	return &Handler{
		catalogSvc:       catalogSvc,
		cartSvc:          cartSvc,
		readStore:        readStore,
		checkoutEndpoint: checkoutEndpoint,
		returnURL:        returnURL,
	}
}

// UpsertProduct records the catalog provider's view of a product
// (async projection - read models update via Kafka)
func (h *Handler) UpsertProduct(ctx context.Context, cmd UpsertProduct) (*catalog.Product, error) {
	return h.catalogSvc.Upsert(ctx, cmd.Product)
}

// DeleteProduct removes a product from the catalog
func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	return h.catalogSvc.Delete(ctx, cmd.ProductID)
}

// AddCartItem resolves the variant and price tier from the catalog and adds
// the resulting line to the session's cart. The unit amount is snapshotted
// here, at add time: later catalog price changes never touch existing rows.
func (h *Handler) AddCartItem(ctx context.Context, cmd AddCartItem) error {
	p, ok := h.readStore.Get(readmodel.CollectionProducts, cmd.ProductID)
	if !ok {
		return catalog.ErrProductNotFound
	}
	prod := p.(*readmodel.ProductReadModel)

	variant := catalog.ResolveVariant(prod.Variants, cmd.Selections)
	if variant == nil {
		if len(prod.Variants) == 0 {
			return catalog.ErrNoVariants
		}
		return ErrVariantNotResolved
	}
	if !variant.Available {
		return ErrVariantUnavailable
	}

	price := catalog.ResolvePrice(variant, cmd.PriceOptionID)
	if price == nil {
		return catalog.ErrNoPrices
	}

	return h.cartSvc.AddItem(ctx, cmd.SessionID, cart.LineItem{
		ProductID:     prod.ID,
		ProductName:   prod.Name,
		VariantID:     variant.ID,
		PriceOptionID: price.ID,
		Quantity:      cmd.Quantity,
		UnitAmount:    price.Amount,
		CurrencyCode:  price.CurrencyCode,
		Selections:    cmd.Selections,
	})
}

// UpdateItemQuantity sets a line's quantity; zero or less removes the line
func (h *Handler) UpdateItemQuantity(ctx context.Context, cmd UpdateItemQuantity) error {
	return h.cartSvc.UpdateQuantity(ctx, cmd.SessionID, cmd.LineKey, cmd.Quantity)
}

// RemoveCartItem removes a line from the cart
func (h *Handler) RemoveCartItem(ctx context.Context, cmd RemoveCartItem) error {
	return h.cartSvc.RemoveItem(ctx, cmd.SessionID, cmd.LineKey)
}

// ClearCart empties the cart
func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) error {
	return h.cartSvc.Clear(ctx, cmd.SessionID)
}

// BeginCheckout serializes the cart for the external provider and returns
// the redirect URL. The redirect itself is a boundary effect the API layer
// performs exactly once per call.
func (h *Handler) BeginCheckout(ctx context.Context, cmd BeginCheckout) (string, error) {
	c, err := h.cartSvc.Load(ctx, cmd.SessionID)
	if err != nil {
		return "", err
	}
	if len(c.Lines) == 0 {
		return "", cart.ErrEmptyCart
	}

	redirectURL, err := checkout.RedirectURL(h.checkoutEndpoint, h.returnURL, checkout.Serialize(c))
	if err != nil {
		return "", err
	}

	if err := h.cartSvc.StartCheckout(ctx, c, redirectURL, cmd.Email); err != nil {
		return "", err
	}
	return redirectURL, nil
}

// CompleteCheckout handles the provider's success signal: the cart is
// cleared and stays cleared on repeated signals (page refresh on the
// success URL).
func (h *Handler) CompleteCheckout(ctx context.Context, cmd CompleteCheckout) error {
	return h.cartSvc.CompleteCheckout(ctx, cmd.SessionID)
}
