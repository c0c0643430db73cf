package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

// Every route requires Basic auth.
//
// GET, POST /v1/admin/products; PUT, DELETE /v1/admin/products/{id}
// GET, POST /v1/admin/discounts; PUT, DELETE /v1/admin/discounts/{code}
// GET /v1/admin/orders?status=&limit=&offset=; PUT /v1/admin/orders/{id}/status
// PUT /v1/admin/theme
// POST /v1/admin/events; PUT, DELETE /v1/admin/events/{id}

type AdminHandler struct {
	admin    port.Admin
	currency string
}

func RegisterAdmin(
	mux *http.ServeMux,
	admin port.Admin,
	currency string,
	auth func(http.Handler) http.Handler,
) {
	h := AdminHandler{admin, currency}
	handle := func(pattern string, hf http.HandlerFunc) {
		mux.Handle(pattern, auth(hf))
	}

	handle("GET /v1/admin/products", h.ListProducts)
	handle("POST /v1/admin/products", h.CreateProduct)
	handle("PUT /v1/admin/products/{id}", h.UpdateProduct)
	handle("DELETE /v1/admin/products/{id}", h.DeleteProduct)

	handle("GET /v1/admin/discounts", h.ListDiscounts)
	handle("POST /v1/admin/discounts", h.CreateDiscount)
	handle("PUT /v1/admin/discounts/{code}", h.UpdateDiscount)
	handle("DELETE /v1/admin/discounts/{code}", h.DeleteDiscount)

	handle("GET /v1/admin/orders", h.ListOrders)
	handle("PUT /v1/admin/orders/{id}/status", h.UpdateOrderStatus)

	handle("PUT /v1/admin/theme", h.UpdateTheme)

	handle("POST /v1/admin/events", h.CreateEvent)
	handle("PUT /v1/admin/events/{id}", h.UpdateEvent)
	handle("DELETE /v1/admin/events/{id}", h.DeleteEvent)
}

func (h AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.ListProducts"
	log := slog.With("op", op)

	f, err := productFilter(r.URL.Query())
	if err != nil {
		writeError(w, log, err)
		return
	}
	ps, err := h.admin.ListProducts(r.Context(), f)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, productsFromDomain(ps, h.currency))
}

func (h AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.CreateProduct"
	log := slog.With("op", op)

	var in ProductInput
	if !decodeJSON(w, r, log, &in) {
		return
	}
	p, err := h.admin.CreateProduct(r.Context(), in.toDomain(""))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusCreated, productFromDomain(p, h.currency))
}

func (h AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.UpdateProduct"
	log := slog.With("op", op)

	var in ProductInput
	if !decodeJSON(w, r, log, &in) {
		return
	}
	p, err := h.admin.UpdateProduct(r.Context(), in.toDomain(r.PathValue("id")))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, productFromDomain(p, h.currency))
}

func (h AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteProduct"
	log := slog.With("op", op)

	if err := h.admin.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.ListDiscounts"
	log := slog.With("op", op)

	ds, err := h.admin.ListDiscounts(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	out := make([]Discount, len(ds))
	for i, d := range ds {
		out[i] = discountFromDomain(d)
	}
	writeJSON(w, log, http.StatusOK, out)
}

func (h AdminHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.CreateDiscount"
	log := slog.With("op", op)

	var in DiscountInput
	if !decodeJSON(w, r, log, &in) {
		return
	}
	d, err := h.admin.CreateDiscount(r.Context(), in.toDomain(""))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusCreated, discountFromDomain(d))
}

func (h AdminHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.UpdateDiscount"
	log := slog.With("op", op)

	var in DiscountInput
	if !decodeJSON(w, r, log, &in) {
		return
	}
	d, err := h.admin.UpdateDiscount(r.Context(), in.toDomain(r.PathValue("code")))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, discountFromDomain(d))
}

func (h AdminHandler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteDiscount"
	log := slog.With("op", op)

	if err := h.admin.DeleteDiscount(r.Context(), r.PathValue("code")); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.ListOrders"
	log := slog.With("op", op)

	q := r.URL.Query()
	limit, offset, err := page(q)
	if err != nil {
		writeError(w, log, err)
		return
	}

	orders, err := h.admin.ListOrders(r.Context(), domain.OrderFilter{
		Status: domain.OrderStatus(q.Get("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = orderFromDomain(o)
	}
	writeJSON(w, log, http.StatusOK, out)
}

func (h AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.UpdateOrderStatus"
	log := slog.With("op", op)

	var req UpdateStatusRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}
	o, err := h.admin.UpdateOrderStatus(
		r.Context(), r.PathValue("id"), domain.OrderStatus(req.Status),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, orderFromDomain(o))
}

func (h AdminHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.UpdateTheme"
	log := slog.With("op", op)

	var in Theme
	if !decodeJSON(w, r, log, &in) {
		return
	}
	t, err := h.admin.UpdateTheme(r.Context(), in.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, themeFromDomain(t))
}

func (h AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.CreateEvent"
	log := slog.With("op", op)

	var in Event
	if !decodeJSON(w, r, log, &in) {
		return
	}
	e, err := h.admin.CreateEvent(r.Context(), in.toDomain(""))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusCreated, eventFromDomain(e))
}

func (h AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.UpdateEvent"
	log := slog.With("op", op)

	var in Event
	if !decodeJSON(w, r, log, &in) {
		return
	}
	e, err := h.admin.UpdateEvent(r.Context(), in.toDomain(r.PathValue("id")))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, eventFromDomain(e))
}

func (h AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteEvent"
	log := slog.With("op", op)

	if err := h.admin.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
