package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/storefront-cart/internal/command"
	"github.com/example/storefront-cart/internal/query"
)

// Product Handlers

func (h *Handlers) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.UpsertProduct
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.cmdHandler.UpsertProduct(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListProducts())
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	product, err := h.queryHandler.GetProduct(id)
	if err != nil {
		if errors.Is(err, query.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")

	cmd := command.DeleteProduct{ProductID: id}
	if err := h.cmdHandler.DeleteProduct(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
