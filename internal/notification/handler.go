package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/email"
	"github.com/example/storefront-cart/internal/infrastructure/store"
)

// pendingCollection holds checkouts that started but have not completed yet.
// The notifier keeps its own copy instead of reading the projector's store,
// since the two consumers advance through the topic independently.
const pendingCollection = "pending_checkouts"

type pendingCheckout struct {
	CartID       string          `json:"cart_id"`
	Email        string          `json:"email"`
	Lines        []cart.LineItem `json:"lines"`
	Subtotal     int             `json:"subtotal"`
	CurrencyCode string          `json:"currency_code"`
}

// Registry maps the pending collection to its type, for document-backed
// stores that need to rehydrate entries
func Registry() map[string]func() any {
	return map[string]func() any{
		pendingCollection: func() any { return &pendingCheckout{} },
	}
}

// Handler processes checkout events for sending notifications
type Handler struct {
	emailService *email.Service
	pending      store.ReadStoreInterface
}

// NewHandler creates a new notification handler
func NewHandler(emailSvc *email.Service, pending store.ReadStoreInterface) *Handler {
	return &Handler{
		emailService: emailSvc,
		pending:      pending,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.EventType {
	case cart.EventCheckoutStarted:
		return h.handleCheckoutStarted(event)
	case cart.EventCheckoutCompleted:
		return h.handleCheckoutCompleted(event)
	}

	return nil
}

func (h *Handler) handleCheckoutStarted(event store.Event) error {
	var e cart.CheckoutStarted
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal CheckoutStarted event: %v", err)
		return err
	}

	h.pending.Set(pendingCollection, e.CartID, &pendingCheckout{
		CartID:       e.CartID,
		Email:        e.Email,
		Lines:        e.Lines,
		Subtotal:     e.Totals.Subtotal,
		CurrencyCode: e.Totals.CurrencyCode,
	})

	log.Printf("[Notifier] Checkout started for cart %s", e.CartID)
	return nil
}

func (h *Handler) handleCheckoutCompleted(event store.Event) error {
	var e cart.CheckoutCompleted
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal CheckoutCompleted event: %v", err)
		return err
	}

	data, ok := h.pending.Get(pendingCollection, e.CartID)
	if !ok {
		log.Printf("[Notifier] No pending checkout for cart %s", e.CartID)
		return nil
	}
	pc, ok := data.(*pendingCheckout)
	if !ok {
		log.Printf("[Notifier] Invalid pending checkout data for cart %s", e.CartID)
		return nil
	}
	h.pending.Delete(pendingCollection, e.CartID)

	if pc.Email == "" {
		log.Printf("[Notifier] Checkout for cart %s completed without an email address", e.CartID)
		return nil
	}

	emailLines := make([]email.CheckoutLine, len(pc.Lines))
	for i, line := range pc.Lines {
		emailLines[i] = email.CheckoutLine{
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitAmount,
		}
	}

	if err := h.emailService.SendCheckoutConfirmation(pc.Email, pc.CartID, pc.Subtotal, pc.CurrencyCode, emailLines); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", pc.Email, err)
		return err
	}

	log.Printf("[Notifier] Checkout confirmation email sent to %s for cart %s", pc.Email, pc.CartID)
	return nil
}
