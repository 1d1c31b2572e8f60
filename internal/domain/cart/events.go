package cart

import "time"

const (
	EventItemAdded           = "CartItemAdded"
	EventItemQuantityChanged = "CartItemQuantityChanged"
	EventItemRemoved         = "CartItemRemoved"
	EventCartCleared         = "CartCleared"
	EventCheckoutStarted     = "CheckoutStarted"
	EventCheckoutCompleted   = "CheckoutCompleted"
)

type ItemAdded struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	Line      LineItem  `json:"line"`
	AddedAt   time.Time `json:"added_at"`
}

type ItemQuantityChanged struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	LineKey   string    `json:"line_key"`
	Quantity  int       `json:"quantity"`
	ChangedAt time.Time `json:"changed_at"`
}

type ItemRemoved struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	LineKey   string    `json:"line_key"`
	RemovedAt time.Time `json:"removed_at"`
}

type Cleared struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

// CheckoutStarted snapshots the lines handed to the external checkout
// provider at the moment of handoff.
type CheckoutStarted struct {
	CartID      string     `json:"cart_id"`
	SessionID   string     `json:"session_id"`
	Lines       []LineItem `json:"lines"`
	Totals      Totals     `json:"totals"`
	CheckoutURL string     `json:"checkout_url"`
	Email       string     `json:"email,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
}

type CheckoutCompleted struct {
	CartID      string    `json:"cart_id"`
	SessionID   string    `json:"session_id"`
	CompletedAt time.Time `json:"completed_at"`
}
