package domain

import (
	"net/mail"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderFailed    OrderStatus = "failed"
	OrderCancelled OrderStatus = "cancelled"
	OrderShipped   OrderStatus = "shipped"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderFailed, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderCancelled},
	OrderFailed:  {OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderFailed, OrderCancelled, OrderShipped:
		return true
	}
	return false
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
}

func (c Customer) Validate() error {
	if c.Name == "" {
		return invalid("customer.name", "required")
	}
	if c.Email == "" {
		return invalid("customer.email", "required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return invalid("customer.email", "malformed address")
	}
	return nil
}

type OrderItem struct {
	ProductID      string
	Name           string
	UnitPriceCents int64
	Quantity       int
}

func (i OrderItem) TotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

type Order struct {
	ID               string
	Number           string
	Status           OrderStatus
	Customer         Customer
	Items            []OrderItem
	SubtotalCents    int64
	DiscountCode     string
	DiscountCents    int64
	ShippingCents    int64
	TotalCents       int64
	Currency         string
	PaymentSessionID string
	PaymentURL       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ShippingPolicy is a flat fee waived once the discounted subtotal
// reaches FreeFromCents. Zero FreeFromCents never waives the fee.
type ShippingPolicy struct {
	FlatCents     int64
	FreeFromCents int64
}

func (p ShippingPolicy) Fee(subtotal int64) int64 {
	if p.FreeFromCents > 0 && subtotal >= p.FreeFromCents {
		return 0
	}
	return p.FlatCents
}

// PriceItems fills the order money fields from its items.
func (o *Order) PriceItems(discount int64, shipping ShippingPolicy) {
	o.SubtotalCents = 0
	for _, it := range o.Items {
		o.SubtotalCents += it.TotalCents()
	}
	o.DiscountCents = min(discount, o.SubtotalCents)
	net := o.SubtotalCents - o.DiscountCents
	o.ShippingCents = shipping.Fee(net)
	o.TotalCents = net + o.ShippingCents
}

// OrderNumber builds the human readable number "CHOC-YYYYMMDD-XXXXXX"
// from the order id and creation time.
func OrderNumber(id string, createdAt time.Time) string {
	hex := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(hex) > 6 {
		hex = hex[:6]
	}
	return "CHOC-" + createdAt.UTC().Format("20060102") + "-" + hex
}

type OrderFilter struct {
	Status OrderStatus
	Limit  int
	Offset int
}

func (f *OrderFilter) Normalize() {
	f.Limit, f.Offset = normalizePage(f.Limit, f.Offset)
}

type PaymentOutcome string

const (
	PaymentSucceeded PaymentOutcome = "succeeded"
	PaymentFailed    PaymentOutcome = "failed"
)

func (o PaymentOutcome) Valid() bool {
	return o == PaymentSucceeded || o == PaymentFailed
}

func (o PaymentOutcome) Status() OrderStatus {
	if o == PaymentSucceeded {
		return OrderPaid
	}
	return OrderFailed
}

type PaymentSession struct {
	ID  string
	URL string
}

type OrderPlacedEvent struct {
	OrderID    string
	Items      []OrderItem
	TotalCents int64
	Currency   string
	PlacedAt   time.Time
}

type OrderPaidEvent struct {
	OrderID    string
	TotalCents int64
	Currency   string
	PaidAt     time.Time
}
