package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

// GET /v1/theme (200 OK)
// GET /v1/events?from=&to= (200 OK, 400 Bad request)
// GET /healthz (200 OK)

type StorefrontHandler struct {
	storefront port.Storefront
	now        func() time.Time
}

func RegisterStorefront(mux *http.ServeMux, storefront port.Storefront) {
	h := StorefrontHandler{storefront, time.Now}
	mux.HandleFunc("GET /v1/theme", h.GetTheme)
	mux.HandleFunc("GET /v1/events", h.ListEvents)
	mux.HandleFunc("GET /healthz", h.Health)
}

func (h StorefrontHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.GetTheme"
	log := slog.With("op", op)

	t, err := h.storefront.Theme(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, themeFromDomain(t))
}

func (h StorefrontHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	const op = "StorefrontHandler.ListEvents"
	log := slog.With("op", op)

	q := r.URL.Query()
	from, err := queryTime(q, "from")
	if err != nil {
		writeError(w, log, err)
		return
	}
	to, err := queryTime(q, "to")
	if err != nil {
		writeError(w, log, err)
		return
	}
	rng, err := domain.NewEventRange(from, to, h.now())
	if err != nil {
		writeError(w, log, err)
		return
	}

	evts, err := h.storefront.Events(r.Context(), rng)
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := make([]Event, len(evts))
	for i, e := range evts {
		out[i] = eventFromDomain(e)
	}
	writeJSON(w, log, http.StatusOK, out)
}

func (h StorefrontHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, slog.Default(), http.StatusOK, map[string]string{"status": "ok"})
}
