package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/niksmo/choco-shop/internal/core/domain"
)

const SignatureHeader = "X-Signature"

var (
	ErrBadSignature = errors.New("bad webhook signature")
	ErrIgnoredEvent = errors.New("webhook event is not about payment")
)

type WebhookEvent struct {
	SessionID string
	Outcome   domain.PaymentOutcome
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		ID            string `json:"id"`
		PaymentStatus string `json:"payment_status"`
	} `json:"data"`
}

// Sign returns the signature header value for body, "sha256=<hex hmac>".
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// ParseWebhook verifies the signature and extracts the session outcome.
// Events other than completed or expired sessions yield [ErrIgnoredEvent].
func ParseWebhook(secret, body []byte, signature string) (WebhookEvent, error) {
	const op = "payment.ParseWebhook"

	if len(secret) == 0 || !strings.HasPrefix(signature, "sha256=") {
		return WebhookEvent{}, fmt.Errorf("%s: %w", op, ErrBadSignature)
	}
	if !hmac.Equal([]byte(Sign(secret, body)), []byte(signature)) {
		return WebhookEvent{}, fmt.Errorf("%s: %w", op, ErrBadSignature)
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		err = domain.ValidationError{Field: "body", Reason: "malformed json"}
		return WebhookEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Data.ID == "" {
		err := domain.ValidationError{Field: "data.id", Reason: "required"}
		return WebhookEvent{}, fmt.Errorf("%s: %w", op, err)
	}

	var status string
	switch p.Type {
	case "checkout.session.completed":
		status = "complete"
	case "checkout.session.expired":
		status = "expired"
	default:
		return WebhookEvent{}, fmt.Errorf("%s: %q: %w", op, p.Type, ErrIgnoredEvent)
	}

	outcome, err := sessionOutcome(status, p.Data.PaymentStatus)
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	return WebhookEvent{SessionID: p.Data.ID, Outcome: outcome}, nil
}
