// Package checkout bridges the cart to the external checkout provider. The
// provider owns payment entirely; this package only serializes the cart into
// the provider's redirect format and recognizes the success signal the
// provider sends back.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/example/storefront-cart/internal/domain/cart"
)

// The provider reports its outcome as a query parameter on the return URL.
const (
	ActionParam   = "checkout_action"
	ActionSuccess = "success"
)

// LineItem is the wire form of one cart line for the checkout provider:
// variant, price tier, quantity. Snapshot amounts stay behind; the provider
// prices the order itself.
type LineItem struct {
	VariantID     string `json:"variant_id"`
	PriceOptionID string `json:"price_option_id"`
	Quantity      int    `json:"quantity"`
}

// Serialize converts the cart's lines into the provider's line-item list,
// preserving display order.
func Serialize(c *cart.Cart) []LineItem {
	lines := make([]LineItem, 0, len(c.Lines))
	for _, li := range c.Lines {
		lines = append(lines, LineItem{
			VariantID:     li.VariantID,
			PriceOptionID: li.PriceOptionID,
			Quantity:      li.Quantity,
		})
	}
	return lines
}

// RedirectURL builds the provider URL the shopper is navigated to. Lines are
// encoded as variantID:priceOptionID:quantity triples; returnTo is where the
// provider sends the shopper back, carrying the checkout_action signal.
func RedirectURL(endpoint, returnTo string, lines []LineItem) (string, error) {
	if endpoint == "" {
		return "", fmt.Errorf("checkout endpoint is not configured")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid checkout endpoint: %w", err)
	}

	encoded := make([]string, 0, len(lines))
	for _, li := range lines {
		encoded = append(encoded, fmt.Sprintf("%s:%s:%d", li.VariantID, li.PriceOptionID, li.Quantity))
	}

	q := u.Query()
	q.Set("cart", strings.Join(encoded, ","))
	if returnTo != "" {
		q.Set("return_to", returnTo)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SuccessSignaled reports whether the provider's return query carries a
// valid success signal. Anything other than the exact success value is
// ignored: malformed signals leave the cart untouched.
func SuccessSignaled(query url.Values) bool {
	return query.Get(ActionParam) == ActionSuccess
}
