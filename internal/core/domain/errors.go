package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("already exists")
	ErrOutOfStock        = errors.New("out of stock")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrDiscountRejected  = errors.New("discount code rejected")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// A ValidationError reports the field that failed validation.
//
// Matches [ErrInvalidInput] with [errors.Is].
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}

// A StockError reports the product which has not enough stock.
//
// Matches [ErrOutOfStock] with [errors.Is].
type StockError struct {
	ProductID string
	Available int
}

func (e StockError) Error() string {
	return "product " + e.ProductID + ": out of stock"
}

func (e StockError) Unwrap() error {
	return ErrOutOfStock
}

var ErrPaymentPending = errors.New("payment is not settled yet")
