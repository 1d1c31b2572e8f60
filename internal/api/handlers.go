package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/storefront-cart/internal/api/middleware"
	"github.com/example/storefront-cart/internal/checkout"
	"github.com/example/storefront-cart/internal/command"
	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/domain/catalog"
	"github.com/example/storefront-cart/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(sessionID))
}

func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req struct {
		ProductID     string            `json:"product_id"`
		Selections    map[string]string `json:"selections"`
		PriceOptionID string            `json:"price_option_id"`
		Quantity      int               `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AddCartItem{
		SessionID:     sessionID,
		ProductID:     req.ProductID,
		Selections:    req.Selections,
		PriceOptionID: req.PriceOptionID,
		Quantity:      req.Quantity,
	}
	if err := h.cmdHandler.AddCartItem(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	lineKey := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.UpdateItemQuantity{
		SessionID: sessionID,
		LineKey:   lineKey,
		Quantity:  req.Quantity,
	}
	if err := h.cmdHandler.UpdateItemQuantity(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	lineKey := extractPathParam(r.URL.Path, "/cart/items/")

	cmd := command.RemoveCartItem{
		SessionID: sessionID,
		LineKey:   lineKey,
	}
	if err := h.cmdHandler.RemoveCartItem(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	cmd := command.ClearCart{SessionID: sessionID}
	if err := h.cmdHandler.ClearCart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Checkout Handlers

func (h *Handlers) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req struct {
		Email string `json:"email"`
	}
	// Body is optional: guests can check out without an email
	json.NewDecoder(r.Body).Decode(&req)

	cmd := command.BeginCheckout{
		SessionID: sessionID,
		Email:     req.Email,
	}
	checkoutURL, err := h.cmdHandler.BeginCheckout(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"checkout_url": checkoutURL})
}

// CheckoutCallback handles the return from the external checkout provider.
// Only the success action completes the checkout; anything else lands the
// shopper back with the cart untouched.
func (h *Handlers) CheckoutCallback(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	if checkout.SuccessSignaled(r.URL.Query()) {
		cmd := command.CompleteCheckout{SessionID: sessionID}
		if err := h.cmdHandler.CompleteCheckout(r.Context(), cmd); err != nil {
			respondCommandError(w, err)
			return
		}
	}

	returnTo := r.URL.Query().Get("return_to")
	if returnTo == "" || !strings.HasPrefix(returnTo, "/") {
		returnTo = "/"
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

func (h *Handlers) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	co, ok := h.queryHandler.GetCheckout(sessionID)
	if !ok {
		http.Error(w, "Checkout not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, co)
}

// Notification Handlers

func (h *Handlers) GetNotification(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	notification, ok := h.queryHandler.PopNotification(sessionID)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, notification)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, query.ErrProductNotFound), errors.Is(err, catalog.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, command.ErrVariantNotResolved),
		errors.Is(err, command.ErrVariantUnavailable),
		errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, catalog.ErrNoVariants),
		errors.Is(err, catalog.ErrNoPrices):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
