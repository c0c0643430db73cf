package port

import (
	"context"

	"github.com/niksmo/choco-shop/internal/core/domain"
)

// Inbound ports. Used by the http handlers.

type Catalog interface {
	ListProducts(context.Context, domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, slug string) (domain.Product, error)
	Bestsellers(ctx context.Context, n int) ([]domain.Bestseller, error)
}

type Carts interface {
	CreateCart(context.Context) (domain.CartView, error)
	GetCart(ctx context.Context, cartID string) (domain.CartView, error)
	AddItem(ctx context.Context, cartID, productID string, qty int) (domain.CartView, error)
	SetItemQuantity(ctx context.Context, cartID, productID string, qty int) (domain.CartView, error)
	RemoveItem(ctx context.Context, cartID, productID string) (domain.CartView, error)
	ClearCart(ctx context.Context, cartID string) error
}

type Checkout interface {
	ValidateDiscount(ctx context.Context, code string, subtotalCents int64) (int64, error)
	PlaceOrder(ctx context.Context, cartID string, c domain.Customer, discountCode string) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ConfirmPayment(ctx context.Context, sessionID string) (domain.Order, error)
	RecordPayment(ctx context.Context, sessionID string, outcome domain.PaymentOutcome) (domain.Order, error)
}

type Storefront interface {
	Theme(context.Context) (domain.Theme, error)
	Events(context.Context, domain.EventRange) ([]domain.Event, error)
}

type Admin interface {
	ListProducts(context.Context, domain.ProductFilter) ([]domain.Product, error)
	CreateProduct(context.Context, domain.Product) (domain.Product, error)
	UpdateProduct(context.Context, domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error

	ListDiscounts(context.Context) ([]domain.DiscountCode, error)
	CreateDiscount(context.Context, domain.DiscountCode) (domain.DiscountCode, error)
	UpdateDiscount(context.Context, domain.DiscountCode) (domain.DiscountCode, error)
	DeleteDiscount(ctx context.Context, code string) error

	ListOrders(context.Context, domain.OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, to domain.OrderStatus) (domain.Order, error)

	UpdateTheme(context.Context, domain.Theme) (domain.Theme, error)

	CreateEvent(context.Context, domain.Event) (domain.Event, error)
	UpdateEvent(context.Context, domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Outbound ports. Implemented by the storage, cache, payment and kafka adapters.

type ProductsStorage interface {
	ListProducts(context.Context, domain.ProductFilter) ([]domain.Product, error)
	ProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	ProductByID(ctx context.Context, id string) (domain.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
	StoreProduct(context.Context, domain.Product) error
	UpdateProduct(context.Context, domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type DiscountsStorage interface {
	DiscountByCode(ctx context.Context, code string) (domain.DiscountCode, error)
	ListDiscounts(context.Context) ([]domain.DiscountCode, error)
	StoreDiscount(context.Context, domain.DiscountCode) error
	UpdateDiscount(context.Context, domain.DiscountCode) error
	DeleteDiscount(ctx context.Context, code string) error
}

type OrdersStorage interface {
	// StoreOrder persists the order, decrements the stock of every item
	// and counts the discount code use as a single unit of work.
	StoreOrder(context.Context, domain.Order) error
	OrderByID(ctx context.Context, id string) (domain.Order, error)
	OrderByPaymentSession(ctx context.Context, sessionID string) (domain.Order, error)
	ListOrders(context.Context, domain.OrderFilter) ([]domain.Order, error)
	SetPaymentSession(ctx context.Context, orderID string, s domain.PaymentSession) error
	// SwapOrderStatus changes the status only when the current one is from.
	SwapOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error
}

type ThemeStorage interface {
	ReadTheme(context.Context) (domain.Theme, error)
	StoreTheme(context.Context, domain.Theme) error
}

type EventsStorage interface {
	ListEvents(context.Context, domain.EventRange) ([]domain.Event, error)
	StoreEvent(context.Context, domain.Event) error
	UpdateEvent(context.Context, domain.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

type CartStorage interface {
	ReadCart(ctx context.Context, id string) (domain.Cart, error)
	StoreCart(context.Context, domain.Cart) error
	DeleteCart(ctx context.Context, id string) error
}

type PaymentGateway interface {
	CreateSession(context.Context, domain.Order) (domain.PaymentSession, error)
	SessionOutcome(ctx context.Context, sessionID string) (domain.PaymentOutcome, error)
}

type OrderEventsProducer interface {
	ProduceOrderPlaced(context.Context, domain.OrderPlacedEvent) error
	ProduceOrderPaid(context.Context, domain.OrderPaidEvent) error
}

type SalesView interface {
	ProductSales(context.Context) ([]domain.ProductSales, error)
}

type DescriptionRenderer interface {
	Render(markdown string) string
}
