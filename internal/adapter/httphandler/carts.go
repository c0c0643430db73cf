package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/choco-shop/internal/core/port"
)

// POST /v1/carts (201 Created)
// GET /v1/carts/{id} (200 OK, 404 Not found)
// POST /v1/carts/{id}/items JSON {product_id, quantity} (200 OK, 409 Conflict)
// PUT /v1/carts/{id}/items/{productID} JSON {quantity} (200 OK)
// DELETE /v1/carts/{id}/items/{productID} (200 OK)
// DELETE /v1/carts/{id} (204 No content)

type CartsHandler struct {
	carts    port.Carts
	currency string
}

func RegisterCarts(mux *http.ServeMux, carts port.Carts, currency string) {
	h := CartsHandler{carts, currency}
	mux.HandleFunc("POST /v1/carts", h.CreateCart)
	mux.HandleFunc("GET /v1/carts/{id}", h.GetCart)
	mux.HandleFunc("POST /v1/carts/{id}/items", h.AddItem)
	mux.HandleFunc("PUT /v1/carts/{id}/items/{productID}", h.SetItemQuantity)
	mux.HandleFunc("DELETE /v1/carts/{id}/items/{productID}", h.RemoveItem)
	mux.HandleFunc("DELETE /v1/carts/{id}", h.ClearCart)
}

func (h CartsHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.CreateCart"
	log := slog.With("op", op)

	v, err := h.carts.CreateCart(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusCreated, cartFromDomain(v, h.currency))
}

func (h CartsHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.GetCart"
	log := slog.With("op", op)

	v, err := h.carts.GetCart(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, cartFromDomain(v, h.currency))
}

func (h CartsHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.AddItem"
	log := slog.With("op", op)

	var req AddItemRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}

	v, err := h.carts.AddItem(
		r.Context(), r.PathValue("id"), req.ProductID, req.Quantity,
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, cartFromDomain(v, h.currency))
}

func (h CartsHandler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.SetItemQuantity"
	log := slog.With("op", op)

	var req SetQuantityRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}

	v, err := h.carts.SetItemQuantity(
		r.Context(), r.PathValue("id"), r.PathValue("productID"), req.Quantity,
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, cartFromDomain(v, h.currency))
}

func (h CartsHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.RemoveItem"
	log := slog.With("op", op)

	v, err := h.carts.RemoveItem(
		r.Context(), r.PathValue("id"), r.PathValue("productID"),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, cartFromDomain(v, h.currency))
}

func (h CartsHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartsHandler.ClearCart"
	log := slog.With("op", op)

	if err := h.carts.ClearCart(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
