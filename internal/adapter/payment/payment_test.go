package payment

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() domain.Order {
	return domain.Order{
		ID:       "9a8b7c6d-0000-4000-8000-000000000001",
		Number:   "CHOC-20261014-9A8B7C",
		Customer: domain.Customer{Name: "Ada", Email: "ada@example.com"},
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Truffles", UnitPriceCents: 1500, Quantity: 2},
		},
		ShippingCents: 500,
		TotalCents:    3500,
		Currency:      "EUR",
	}
}

func newTestGateway(t *testing.T, h http.HandlerFunc) HostedGateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewHostedGateway(
		HostedConfig{
			APIURL:    srv.URL + "/",
			SecretKey: "sk_test",
			Currency:  "EUR",
			ReturnURL: "https://shop.example/checkout/return",
			CancelURL: "https://shop.example/cart",
		},
		HTTPClientOpt(srv.Client()),
		RetryOpt(3, retry.LinearBackoff(0)),
	)
}

func TestHostedGatewayCreateSession(t *testing.T) {
	var got createSessionRequest
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://pay.example/cs_1"}`))
	})

	s, err := g.CreateSession(t.Context(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSession{ID: "cs_1", URL: "https://pay.example/cs_1"}, s)

	assert.Equal(t, "https://shop.example/checkout/return?session_id={SESSION_ID}", got.SuccessURL)
	assert.Equal(t, "CHOC-20261014-9A8B7C", got.Reference)
	assert.Equal(t, int64(3500), got.Amount)
	assert.Equal(t, "eur", got.Currency)
	assert.Equal(t, "ada@example.com", got.Email)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, lineItem{Name: "Shipping", UnitAmount: 500, Quantity: 1}, got.LineItems[1])
}

func TestHostedGatewayCreateSessionRetries5xx(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id":"cs_2","url":"https://pay.example/cs_2"}`))
	})

	s, err := g.CreateSession(t.Context(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "cs_2", s.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHostedGatewayCreateSessionNoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`amount too small`))
	})

	_, err := g.CreateSession(t.Context(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too small")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHostedGatewaySessionOutcome(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    domain.PaymentOutcome
		wantErr error
	}{
		{"Paid", `{"status":"complete","payment_status":"paid"}`, domain.PaymentSucceeded, nil},
		{"Unpaid", `{"status":"complete","payment_status":"unpaid"}`, domain.PaymentFailed, nil},
		{"Expired", `{"status":"expired"}`, domain.PaymentFailed, nil},
		{"Open", `{"status":"open"}`, "", domain.ErrPaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/v1/checkout/sessions/cs_1", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := g.SessionOutcome(t.Context(), "cs_1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("UnknownSession", func(t *testing.T) {
		g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := g.SessionOutcome(t.Context(), "cs_x")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMockGateway(t *testing.T) {
	g := NewMockGateway("https://shop.example/checkout/mock/")

	s, err := g.CreateSession(t.Context(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/checkout/mock/"+s.ID, s.URL)

	_, err = g.SessionOutcome(t.Context(), s.ID)
	require.ErrorIs(t, err, domain.ErrPaymentPending)

	require.ErrorIs(t, g.Settle(s.ID, "maybe"), domain.ErrInvalidInput)
	require.NoError(t, g.Settle(s.ID, domain.PaymentSucceeded))
	require.NoError(t, g.Settle(s.ID, domain.PaymentSucceeded))
	require.ErrorIs(t, g.Settle(s.ID, domain.PaymentFailed), domain.ErrConflict)

	got, err := g.SessionOutcome(t.Context(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSucceeded, got)

	_, err = g.SessionOutcome(t.Context(), "mock_unknown")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, g.Settle("mock_unknown", domain.PaymentFailed), domain.ErrNotFound)
}

func TestParseWebhook(t *testing.T) {
	secret := []byte("whsec")
	completed := []byte(`{"type":"checkout.session.completed",` +
		`"data":{"id":"cs_1","payment_status":"paid"}}`)

	t.Run("Completed", func(t *testing.T) {
		evt, err := ParseWebhook(secret, completed, Sign(secret, completed))
		require.NoError(t, err)
		assert.Equal(t, WebhookEvent{SessionID: "cs_1", Outcome: domain.PaymentSucceeded}, evt)
	})

	t.Run("Expired", func(t *testing.T) {
		body := []byte(`{"type":"checkout.session.expired","data":{"id":"cs_2"}}`)
		evt, err := ParseWebhook(secret, body, Sign(secret, body))
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentFailed, evt.Outcome)
	})

	t.Run("BadSignature", func(t *testing.T) {
		_, err := ParseWebhook(secret, completed, Sign([]byte("other"), completed))
		require.ErrorIs(t, err, ErrBadSignature)

		_, err = ParseWebhook(secret, completed, "")
		require.ErrorIs(t, err, ErrBadSignature)

		_, err = ParseWebhook(nil, completed, Sign(nil, completed))
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("Ignored", func(t *testing.T) {
		body := []byte(`{"type":"charge.refunded","data":{"id":"ch_1"}}`)
		_, err := ParseWebhook(secret, body, Sign(secret, body))
		require.ErrorIs(t, err, ErrIgnoredEvent)
	})

	t.Run("Malformed", func(t *testing.T) {
		body := []byte(`{"type":`)
		_, err := ParseWebhook(secret, body, Sign(secret, body))
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestWithSessionPlaceholder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://shop.example/checkout/return", "https://shop.example/checkout/return?session_id={SESSION_ID}"},
		{"https://shop.example/return?lang=de", "https://shop.example/return?lang=de&session_id={SESSION_ID}"},
		{"https://shop.example/return/{SESSION_ID}", "https://shop.example/return/{SESSION_ID}"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, withSessionPlaceholder(tt.in))
		})
	}
}
