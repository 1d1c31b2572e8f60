package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/storefront-cart/internal/infrastructure/store"
)

const AggregateType = "Cart"

var ErrEmptyCart = errors.New("cart is empty")

// LineItem is one row in the cart: a variant + price-tier + quantity
// combination. UnitAmount is snapshotted from the catalog when the line is
// first added and never changes afterwards; upstream price changes do not
// retroactively alter cart rows.
type LineItem struct {
	ProductID     string            `json:"product_id"`
	ProductName   string            `json:"product_name,omitempty"`
	VariantID     string            `json:"variant_id"`
	PriceOptionID string            `json:"price_option_id"`
	Quantity      int               `json:"quantity"`
	UnitAmount    int               `json:"unit_amount"`
	CurrencyCode  string            `json:"currency_code"`
	Selections    map[string]string `json:"selections,omitempty"`
}

// Key identifies a line item within its cart. Two adds with the same
// variant and price option merge into one line; the same variant under a
// different price option (one-time vs. a subscription interval) is a
// separate line.
func (li LineItem) Key() string {
	return LineKey(li.VariantID, li.PriceOptionID)
}

func LineKey(variantID, priceOptionID string) string {
	return variantID + ":" + priceOptionID
}

// Cart is the shopper's cart aggregate. Lines keep insertion order, which is
// also display order.
type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Lines     []LineItem `json:"lines"`
	Version   int        `json:"version"`
}

// Totals are derived from the lines on every call, never stored.
type Totals struct {
	ItemCount    int    `json:"item_count"`
	Subtotal     int    `json:"subtotal"`
	CurrencyCode string `json:"currency_code"`
}

// Totals computes the item count and subtotal. The currency is taken from
// the first line item; an empty cart reports the given default.
func (c *Cart) Totals(defaultCurrency string) Totals {
	t := Totals{CurrencyCode: defaultCurrency}
	for _, li := range c.Lines {
		t.ItemCount += li.Quantity
		t.Subtotal += li.UnitAmount * li.Quantity
	}
	if len(c.Lines) > 0 {
		t.CurrencyCode = c.Lines[0].CurrencyCode
	}
	return t
}

// Line returns the line item with the given key
func (c *Cart) Line(key string) (LineItem, bool) {
	for _, li := range c.Lines {
		if li.Key() == key {
			return li, true
		}
	}
	return LineItem{}, false
}

func (c *Cart) lineIndex(key string) int {
	for i, li := range c.Lines {
		if li.Key() == key {
			return i
		}
	}
	return -1
}

// GetCartID returns the cart ID for a session (one cart per session)
func GetCartID(sessionID string) string {
	return "cart-" + sessionID
}

// applyEvent applies a single event to the cart state
func (c *Cart) applyEvent(event store.Event) error {
	switch event.EventType {
	case EventItemAdded:
		var data ItemAdded
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.ID = data.CartID
		c.SessionID = data.SessionID
		if i := c.lineIndex(LineKey(data.Line.VariantID, data.Line.PriceOptionID)); i >= 0 {
			// Merge into the existing line. The unit amount keeps its
			// original snapshot.
			c.Lines[i].Quantity += data.Line.Quantity
		} else {
			c.Lines = append(c.Lines, data.Line)
		}

	case EventItemQuantityChanged:
		var data ItemQuantityChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.lineIndex(data.LineKey); i >= 0 {
			if data.Quantity <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			} else {
				c.Lines[i].Quantity = data.Quantity
			}
		}

	case EventItemRemoved:
		var data ItemRemoved
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.lineIndex(data.LineKey); i >= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}

	case EventCartCleared:
		var data Cleared
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Lines = nil

	case EventCheckoutStarted:
		// No local state change: the shopper is simply navigated away, and an
		// abandoned checkout leaves the cart as it was.

	case EventCheckoutCompleted:
		var data CheckoutCompleted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Lines = nil
	}
	c.Version = event.Version
	return nil
}

// Service is the write side of the cart: it loads state by replaying events
// and records each operation as a new event. Operations are defensive per
// the cart's contract: malformed input is normalized or ignored rather than
// surfaced as an error.
type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Load rebuilds the cart for a session by replaying its events, starting
// from a snapshot when one exists.
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	cartID := GetCartID(sessionID)
	cart := &Cart{ID: cartID, SessionID: sessionID}

	snapshot, err := s.eventStore.GetSnapshot(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var events []store.Event
	if snapshot != nil {
		if err := json.Unmarshal(snapshot.State, cart); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		events = s.eventStore.GetEventsFromVersion(ctx, cartID, snapshot.Version)
	} else {
		events = s.eventStore.GetEvents(cartID)
	}

	for _, event := range events {
		if err := cart.applyEvent(event); err != nil {
			return nil, fmt.Errorf("failed to apply event: %w", err)
		}
	}

	return cart, nil
}

// AddItem appends a line item or merges it into an existing line with the
// same (variant, price option) key. A non-positive quantity is clamped to 1.
// A line without a variant or price option identifier cannot address
// anything and is dropped as a no-op.
func (s *Service) AddItem(ctx context.Context, sessionID string, line LineItem) error {
	if line.VariantID == "" || line.PriceOptionID == "" {
		return nil
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	cartID := GetCartID(sessionID)
	event := ItemAdded{
		CartID:    cartID,
		SessionID: sessionID,
		Line:      line,
		AddedAt:   time.Now(),
	}

	return s.append(ctx, cartID, EventItemAdded, event)
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line; an unknown key is a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, lineKey string, quantity int) error {
	cartID := GetCartID(sessionID)

	cart, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, ok := cart.Line(lineKey); !ok {
		return nil
	}

	if quantity <= 0 {
		event := ItemRemoved{
			CartID:    cartID,
			SessionID: sessionID,
			LineKey:   lineKey,
			RemovedAt: time.Now(),
		}
		return s.append(ctx, cartID, EventItemRemoved, event)
	}

	event := ItemQuantityChanged{
		CartID:    cartID,
		SessionID: sessionID,
		LineKey:   lineKey,
		Quantity:  quantity,
		ChangedAt: time.Now(),
	}
	return s.append(ctx, cartID, EventItemQuantityChanged, event)
}

// RemoveItem removes the line with the given key; an unknown key is a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, lineKey string) error {
	cartID := GetCartID(sessionID)

	cart, err := s.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, ok := cart.Line(lineKey); !ok {
		return nil
	}

	event := ItemRemoved{
		CartID:    cartID,
		SessionID: sessionID,
		LineKey:   lineKey,
		RemovedAt: time.Now(),
	}
	return s.append(ctx, cartID, EventItemRemoved, event)
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	cartID := GetCartID(sessionID)
	event := Cleared{
		CartID:    cartID,
		SessionID: sessionID,
		ClearedAt: time.Now(),
	}
	return s.append(ctx, cartID, EventCartCleared, event)
}

// StartCheckout records the handoff of an already-loaded cart to the
// external checkout provider. It fails only on an empty cart; once started,
// the handoff is a one-way transition from this service's perspective.
func (s *Service) StartCheckout(ctx context.Context, c *Cart, checkoutURL, email string) error {
	if len(c.Lines) == 0 {
		return ErrEmptyCart
	}

	event := CheckoutStarted{
		CartID:      c.ID,
		SessionID:   c.SessionID,
		Lines:       c.Lines,
		Totals:      c.Totals(""),
		CheckoutURL: checkoutURL,
		Email:       email,
		StartedAt:   time.Now(),
	}
	return s.append(ctx, c.ID, EventCheckoutStarted, event)
}

// CompleteCheckout clears the cart after the provider signals success. It is
// idempotent: completing an already-completed (empty) cart records the
// signal and leaves the cart empty.
func (s *Service) CompleteCheckout(ctx context.Context, sessionID string) error {
	cartID := GetCartID(sessionID)
	event := CheckoutCompleted{
		CartID:      cartID,
		SessionID:   sessionID,
		CompletedAt: time.Now(),
	}
	return s.append(ctx, cartID, EventCheckoutCompleted, event)
}

func (s *Service) append(ctx context.Context, cartID, eventType string, data any) error {
	storedEvent, err := s.eventStore.Append(ctx, cartID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	if storedEvent != nil && storedEvent.Version > 0 && storedEvent.Version%store.SnapshotThreshold == 0 {
		if err := s.snapshot(ctx, cartID); err != nil {
			log.Printf("[Cart] Failed to create snapshot for cart %s: %v", cartID, err)
		}
	}
	return nil
}

func (s *Service) snapshot(ctx context.Context, cartID string) error {
	// Replay including the event that crossed the threshold
	cart := &Cart{ID: cartID}
	for _, event := range s.eventStore.GetEvents(cartID) {
		if err := cart.applyEvent(event); err != nil {
			return err
		}
	}

	state, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart state: %w", err)
	}

	return s.eventStore.SaveSnapshot(ctx, &store.Snapshot{
		AggregateID:   cartID,
		AggregateType: AggregateType,
		Version:       cart.Version,
		State:         state,
		CreatedAt:     time.Now(),
	})
}
