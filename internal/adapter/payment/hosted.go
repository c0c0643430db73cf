package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
	"github.com/niksmo/choco-shop/pkg/retry"
)

var _ port.PaymentGateway = (*HostedGateway)(nil)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	defaultRetryDelay  = 200 * time.Millisecond
)

// SessionPlaceholder is replaced by the processor with the session id.
const SessionPlaceholder = "{SESSION_ID}"

// errTransient marks failures worth another attempt:
// transport errors and 5xx answers.
var errTransient = errors.New("transient gateway failure")

type HostedConfig struct {
	APIURL    string
	SecretKey string
	Currency  string
	// ReturnURL is where the processor sends the shopper back.
	// A session_id query with [SessionPlaceholder] is added unless
	// the url already carries the placeholder.
	ReturnURL string
	CancelURL string
}

type hostedOpts struct {
	client      *http.Client
	maxAttempts int
	backoff     retry.Backoff
}

type HostedOpt func(*hostedOpts)

func HTTPClientOpt(c *http.Client) HostedOpt {
	return func(o *hostedOpts) {
		o.client = c
	}
}

func RetryOpt(maxAttempts int, backoff retry.Backoff) HostedOpt {
	return func(o *hostedOpts) {
		o.maxAttempts = maxAttempts
		o.backoff = backoff
	}
}

// HostedGateway talks to a hosted checkout processor.
type HostedGateway struct {
	cfg    HostedConfig
	client *http.Client
	retry  retry.RetryConfig
}

func NewHostedGateway(cfg HostedConfig, opts ...HostedOpt) HostedGateway {
	o := hostedOpts{
		client:      &http.Client{Timeout: defaultTimeout},
		maxAttempts: defaultMaxAttempts,
		backoff:     retry.ExponentialBackoff(defaultRetryDelay),
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.ReturnURL = withSessionPlaceholder(cfg.ReturnURL)
	return HostedGateway{
		cfg:    cfg,
		client: o.client,
		retry: retry.RetryConfig{
			MaxAttempts: o.maxAttempts,
			Backoff:     o.backoff,
			ShouldRetry: func(err error) bool {
				return errors.Is(err, errTransient)
			},
		},
	}
}

func withSessionPlaceholder(u string) string {
	if u == "" || strings.Contains(u, SessionPlaceholder) {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "session_id=" + SessionPlaceholder
}

type lineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

type createSessionRequest struct {
	Reference  string     `json:"reference"`
	Amount     int64      `json:"amount"`
	Currency   string     `json:"currency"`
	Email      string     `json:"customer_email"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
	LineItems  []lineItem `json:"line_items"`
}

type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

func (g HostedGateway) CreateSession(
	ctx context.Context, o domain.Order,
) (domain.PaymentSession, error) {
	const op = "HostedGateway.CreateSession"
	log := slog.With("op", op)

	req := createSessionRequest{
		Reference:  o.Number,
		Amount:     o.TotalCents,
		Currency:   strings.ToLower(g.currency(o)),
		Email:      o.Customer.Email,
		SuccessURL: g.cfg.ReturnURL,
		CancelURL:  g.cfg.CancelURL,
	}
	for _, it := range o.Items {
		req.LineItems = append(req.LineItems, lineItem{
			Name: it.Name, UnitAmount: it.UnitPriceCents, Quantity: it.Quantity,
		})
	}
	if o.ShippingCents > 0 {
		req.LineItems = append(req.LineItems, lineItem{
			Name: "Shipping", UnitAmount: o.ShippingCents, Quantity: 1,
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := retry.DoWithResult(ctx, g.retry, func() (sessionResponse, error) {
		res, err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", body)
		if err != nil {
			log.Warn("session request failed", "err", err)
		}
		return res, err
	})
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("%s: %w", op, err)
	}
	if res.ID == "" || res.URL == "" {
		return domain.PaymentSession{}, fmt.Errorf(
			"%s: processor returned an incomplete session", op,
		)
	}

	log.Info("checkout session created", "orderID", o.ID, "sessionID", res.ID)
	return domain.PaymentSession{ID: res.ID, URL: res.URL}, nil
}

// SessionOutcome maps the processor session state. An open session
// yields [domain.ErrPaymentPending].
func (g HostedGateway) SessionOutcome(
	ctx context.Context, sessionID string,
) (domain.PaymentOutcome, error) {
	const op = "HostedGateway.SessionOutcome"

	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID)
	res, err := g.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	outcome, err := sessionOutcome(res.Status, res.PaymentStatus)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return outcome, nil
}

func sessionOutcome(status, paymentStatus string) (domain.PaymentOutcome, error) {
	switch status {
	case "complete":
		if paymentStatus == "paid" {
			return domain.PaymentSucceeded, nil
		}
		return domain.PaymentFailed, nil
	case "expired":
		return domain.PaymentFailed, nil
	case "open", "":
		return "", domain.ErrPaymentPending
	}
	return "", fmt.Errorf("unknown session status %q", status)
}

func (g HostedGateway) currency(o domain.Order) string {
	if o.Currency != "" {
		return o.Currency
	}
	return g.cfg.Currency
}

func (g HostedGateway) do(
	ctx context.Context, method, path string, body []byte,
) (sessionResponse, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.cfg.APIURL+path, r)
	if err != nil {
		return sessionResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return sessionResponse{}, err
		}
		return sessionResponse{}, fmt.Errorf("%w: %w", errTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return sessionResponse{}, fmt.Errorf("%w: %w", errTransient, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return sessionResponse{}, fmt.Errorf(
			"%w: status %d", errTransient, resp.StatusCode,
		)
	case resp.StatusCode == http.StatusNotFound:
		return sessionResponse{}, domain.ErrNotFound
	case resp.StatusCode >= 300:
		return sessionResponse{}, fmt.Errorf(
			"processor rejected request: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(raw)),
		)
	}

	var res sessionResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return sessionResponse{}, fmt.Errorf("malformed processor response: %w", err)
	}
	return res, nil
}
