package domain

import (
	"strings"
	"time"
)

type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

type DiscountCode struct {
	Code             string
	Kind             DiscountKind
	Value            int64
	MinSubtotalCents int64
	MaxUses          int
	Uses             int
	ExpiresAt        *time.Time
	Active           bool
	CreatedAt        time.Time
}

// A DiscountRejectedError tells the customer why the code does not apply.
//
// Matches [ErrDiscountRejected] with [errors.Is].
type DiscountRejectedError struct {
	Code   string
	Reason string
}

func (e DiscountRejectedError) Error() string {
	return "discount code " + e.Code + ": " + e.Reason
}

func (e DiscountRejectedError) Unwrap() error {
	return ErrDiscountRejected
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (d *DiscountCode) Normalize() {
	d.Code = NormalizeCode(d.Code)
	d.Kind = DiscountKind(strings.ToLower(string(d.Kind)))
}

func (d DiscountCode) Validate() error {
	if d.Code == "" {
		return invalid("code", "required")
	}
	if d.MinSubtotalCents < 0 {
		return invalid("min_subtotal_cents", "must not be negative")
	}
	if d.MaxUses < 0 {
		return invalid("max_uses", "must not be negative")
	}
	switch d.Kind {
	case DiscountPercent:
		if d.Value < 1 || d.Value > 100 {
			return invalid("value", "percent must be between 1 and 100")
		}
	case DiscountFixed:
		if d.Value <= 0 {
			return invalid("value", "must be positive")
		}
	default:
		return invalid("kind", "must be percent or fixed")
	}
	return nil
}

// Apply returns the amount taken off subtotal at the moment now.
//
// The amount never exceeds subtotal.
func (d DiscountCode) Apply(subtotal int64, now time.Time) (int64, error) {
	reject := func(reason string) (int64, error) {
		return 0, DiscountRejectedError{Code: d.Code, Reason: reason}
	}

	switch {
	case !d.Active:
		return reject("inactive")
	case d.ExpiresAt != nil && !now.Before(*d.ExpiresAt):
		return reject("expired")
	case d.MaxUses > 0 && d.Uses >= d.MaxUses:
		return reject("usage limit reached")
	case subtotal < d.MinSubtotalCents:
		return reject("order subtotal is below the minimum")
	}

	var off int64
	switch d.Kind {
	case DiscountPercent:
		off = (subtotal*d.Value + 50) / 100
	case DiscountFixed:
		off = d.Value
	}
	return min(off, subtotal), nil
}
