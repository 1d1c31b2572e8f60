package readmodel

import (
	"time"

	"github.com/example/storefront-cart/internal/domain/catalog"
)

// Collection names shared by projector, query handler and read stores.
const (
	CollectionProducts      = "products"
	CollectionCarts         = "carts"
	CollectionCheckouts     = "checkouts"
	CollectionNotifications = "notifications"
)

// ProductReadModel is the read model for catalog products. Variants and
// price options keep the catalog package's shape so the selector can run
// directly against them.
type ProductReadModel struct {
	ID          string            `json:"id"`
	Handle      string            `json:"handle,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Options     []catalog.Option  `json:"options,omitempty"`
	Variants    []catalog.Variant `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CartLineReadModel is one display row of the cart
type CartLineReadModel struct {
	Key           string            `json:"key"`
	ProductID     string            `json:"product_id"`
	ProductName   string            `json:"product_name,omitempty"`
	VariantID     string            `json:"variant_id"`
	PriceOptionID string            `json:"price_option_id"`
	Quantity      int               `json:"quantity"`
	UnitAmount    int               `json:"unit_amount"`
	LineTotal     int               `json:"line_total"`
	CurrencyCode  string            `json:"currency_code"`
	Selections    map[string]string `json:"selections,omitempty"`
}

// CartReadModel is the read model for a session's cart. ItemCount and
// Subtotal are recomputed from the lines on every projection, never carried
// forward.
type CartReadModel struct {
	ID           string              `json:"id"`
	SessionID    string              `json:"session_id"`
	Lines        []CartLineReadModel `json:"lines"`
	ItemCount    int                 `json:"item_count"`
	Subtotal     int                 `json:"subtotal"`
	CurrencyCode string              `json:"currency_code"`
}

// CheckoutReadModel records a handoff to the external provider: what was
// sent, where the shopper was redirected, and whether the provider has
// reported success yet.
type CheckoutReadModel struct {
	CartID       string              `json:"cart_id"`
	SessionID    string              `json:"session_id"`
	Email        string              `json:"email,omitempty"`
	Lines        []CartLineReadModel `json:"lines"`
	ItemCount    int                 `json:"item_count"`
	Subtotal     int                 `json:"subtotal"`
	CurrencyCode string              `json:"currency_code"`
	CheckoutURL  string              `json:"checkout_url"`
	StartedAt    time.Time           `json:"started_at"`
	Completed    bool                `json:"completed"`
	CompletedAt  time.Time           `json:"completed_at"`
}

// NotificationReadModel is a transient notice for a session, e.g. the
// checkout success message. Keyed by session; reading it is destructive
// (the API pops it), so a refresh does not re-announce.
type NotificationReadModel struct {
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry maps collections to read model constructors for document-based
// read stores.
func Registry() map[string]func() any {
	return map[string]func() any{
		CollectionProducts:      func() any { return &ProductReadModel{} },
		CollectionCarts:         func() any { return &CartReadModel{} },
		CollectionCheckouts:     func() any { return &CheckoutReadModel{} },
		CollectionNotifications: func() any { return &NotificationReadModel{} },
	}
}
