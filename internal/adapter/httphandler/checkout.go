package httphandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/niksmo/choco-shop/internal/adapter/payment"
	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

// POST /v1/discounts/validate JSON {code, subtotal_cents} (200 OK, 422 Unprocessable)
// POST /v1/orders JSON {cart_id, customer, discount_code} (201 Created, 409, 422)
// GET /v1/orders/{id} (200 OK, 404 Not found)
// POST /v1/payments/return JSON {session_id} (200 OK)
// POST /v1/payments/webhook signed JSON (200 OK, 401 Unauthorized)
// POST /v1/payments/mock/{session} JSON {outcome} (200 OK), mock provider only

// A MockTerminal settles sessions of the mock payment provider.
type MockTerminal interface {
	Settle(sessionID string, outcome domain.PaymentOutcome) error
}

type CheckoutHandler struct {
	checkout      port.Checkout
	webhookSecret []byte
	terminal      MockTerminal
}

// RegisterCheckout registers the webhook only when webhookSecret is set
// and the terminal route only when terminal is not nil.
func RegisterCheckout(
	mux *http.ServeMux,
	checkout port.Checkout,
	webhookSecret string,
	terminal MockTerminal,
) {
	h := CheckoutHandler{checkout, []byte(webhookSecret), terminal}
	mux.HandleFunc("POST /v1/discounts/validate", h.ValidateDiscount)
	mux.HandleFunc("POST /v1/orders", h.PlaceOrder)
	mux.HandleFunc("GET /v1/orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /v1/payments/return", h.PaymentReturn)
	if webhookSecret != "" {
		mux.HandleFunc("POST /v1/payments/webhook", h.PaymentWebhook)
	}
	if terminal != nil {
		mux.HandleFunc("POST /v1/payments/mock/{session}", h.MockSettle)
	}
}

func (h CheckoutHandler) ValidateDiscount(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.ValidateDiscount"
	log := slog.With("op", op)

	var req ValidateDiscountRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}

	off, err := h.checkout.ValidateDiscount(r.Context(), req.Code, req.SubtotalCents)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, ValidateDiscountResponse{
		Code: domain.NormalizeCode(req.Code), DiscountCents: off,
	})
}

func (h CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PlaceOrder"
	log := slog.With("op", op)

	var req PlaceOrderRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}

	o, err := h.checkout.PlaceOrder(
		r.Context(), req.CartID, req.Customer.toDomain(), req.DiscountCode,
	)
	if err != nil {
		writeError(w, log, err)
		return
	}

	log.Info("order placed", "orderID", o.ID, "total", o.TotalCents)
	writeJSON(w, log, http.StatusCreated, orderFromDomain(o))
}

func (h CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.GetOrder"
	log := slog.With("op", op)

	o, err := h.checkout.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, orderFromDomain(o))
}

func (h CheckoutHandler) PaymentReturn(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PaymentReturn"
	log := slog.With("op", op)

	var req PaymentReturnRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, log, domain.ValidationError{Field: "session_id", Reason: "required"})
		return
	}

	o, err := h.checkout.ConfirmPayment(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, orderFromDomain(o))
}

func (h CheckoutHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PaymentWebhook"
	log := slog.With("op", op)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, log, http.StatusBadRequest, errorResponse{"unreadable body"})
		return
	}

	evt, err := payment.ParseWebhook(
		h.webhookSecret, body, r.Header.Get(payment.SignatureHeader),
	)
	switch {
	case errors.Is(err, payment.ErrBadSignature):
		log.Warn("rejected webhook", "err", err)
		writeJSON(w, log, http.StatusUnauthorized, errorResponse{"bad signature"})
		return
	case errors.Is(err, payment.ErrIgnoredEvent):
		log.Debug("ignored webhook", "err", err)
		w.WriteHeader(http.StatusOK)
		return
	case err != nil:
		writeError(w, log, err)
		return
	}

	if _, err := h.checkout.RecordPayment(r.Context(), evt.SessionID, evt.Outcome); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h CheckoutHandler) MockSettle(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.MockSettle"
	log := slog.With("op", op)

	var req MockSettleRequest
	if !decodeJSON(w, r, log, &req) {
		return
	}

	sessionID := r.PathValue("session")
	outcome := domain.PaymentOutcome(req.Outcome)
	if err := h.terminal.Settle(sessionID, outcome); err != nil {
		writeError(w, log, err)
		return
	}

	o, err := h.checkout.ConfirmPayment(r.Context(), sessionID)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, orderFromDomain(o))
}
