package command

import "github.com/example/storefront-cart/internal/domain/catalog"

// Catalog commands

type UpsertProduct struct {
	Product catalog.Product `json:"product"`
}

type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

// Cart commands

type AddCartItem struct {
	SessionID     string            `json:"session_id"`
	ProductID     string            `json:"product_id"`
	Selections    map[string]string `json:"selections,omitempty"`
	PriceOptionID string            `json:"price_option_id,omitempty"`
	Quantity      int               `json:"quantity"`
}

type UpdateItemQuantity struct {
	SessionID string `json:"session_id"`
	LineKey   string `json:"line_key"`
	Quantity  int    `json:"quantity"`
}

type RemoveCartItem struct {
	SessionID string `json:"session_id"`
	LineKey   string `json:"line_key"`
}

type ClearCart struct {
	SessionID string `json:"session_id"`
}

// Checkout commands

type BeginCheckout struct {
	SessionID string `json:"session_id"`
	// Email is optional; when present the notifier sends a confirmation
	// after the provider reports success.
	Email string `json:"email,omitempty"`
}

type CompleteCheckout struct {
	SessionID string `json:"session_id"`
}
