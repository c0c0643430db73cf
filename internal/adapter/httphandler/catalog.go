package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/choco-shop/internal/core/port"
)

// GET /v1/products?category=&q=&featured=&limit=&offset= (200 OK)
// GET /v1/products/bestsellers?limit= (200 OK)
// GET /v1/products/{slug} (200 OK, 404 Not found)

type CatalogHandler struct {
	catalog  port.Catalog
	currency string
}

func RegisterCatalog(mux *http.ServeMux, catalog port.Catalog, currency string) {
	h := CatalogHandler{catalog, currency}
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/bestsellers", h.Bestsellers)
	mux.HandleFunc("GET /v1/products/{slug}", h.GetProduct)
}

func (h CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.ListProducts"
	log := slog.With("op", op)

	f, err := productFilter(r.URL.Query())
	if err != nil {
		writeError(w, log, err)
		return
	}

	ps, err := h.catalog.ListProducts(r.Context(), f)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, productsFromDomain(ps, h.currency))
}

func (h CatalogHandler) Bestsellers(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.Bestsellers"
	log := slog.With("op", op)

	n, err := queryInt(r.URL.Query(), "limit")
	if err != nil {
		writeError(w, log, err)
		return
	}

	bs, err := h.catalog.Bestsellers(r.Context(), n)
	if err != nil {
		writeError(w, log, err)
		return
	}

	out := make([]Bestseller, len(bs))
	for i, b := range bs {
		out[i] = Bestseller{
			Product:   productFromDomain(b.Product, h.currency),
			UnitsSold: b.UnitsSold,
		}
	}
	writeJSON(w, log, http.StatusOK, out)
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.catalog.GetProduct(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, productFromDomain(p, h.currency))
}
