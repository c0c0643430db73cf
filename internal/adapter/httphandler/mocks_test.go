package httphandler

import (
	"context"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalog) GetProduct(ctx context.Context, slug string) (domain.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) Bestsellers(ctx context.Context, n int) ([]domain.Bestseller, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]domain.Bestseller), args.Error(1)
}

type MockCarts struct{ mock.Mock }

func (m *MockCarts) CreateCart(ctx context.Context) (domain.CartView, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCarts) GetCart(ctx context.Context, id string) (domain.CartView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCarts) AddItem(ctx context.Context, id, productID string, qty int) (domain.CartView, error) {
	args := m.Called(ctx, id, productID, qty)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCarts) SetItemQuantity(ctx context.Context, id, productID string, qty int) (domain.CartView, error) {
	args := m.Called(ctx, id, productID, qty)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCarts) RemoveItem(ctx context.Context, id, productID string) (domain.CartView, error) {
	args := m.Called(ctx, id, productID)
	return args.Get(0).(domain.CartView), args.Error(1)
}

func (m *MockCarts) ClearCart(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCheckout struct{ mock.Mock }

func (m *MockCheckout) ValidateDiscount(ctx context.Context, code string, subtotal int64) (int64, error) {
	args := m.Called(ctx, code, subtotal)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckout) PlaceOrder(ctx context.Context, cartID string, c domain.Customer, code string) (domain.Order, error) {
	args := m.Called(ctx, cartID, c, code)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockCheckout) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockCheckout) ConfirmPayment(ctx context.Context, sessionID string) (domain.Order, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockCheckout) RecordPayment(ctx context.Context, sessionID string, outcome domain.PaymentOutcome) (domain.Order, error) {
	args := m.Called(ctx, sessionID, outcome)
	return args.Get(0).(domain.Order), args.Error(1)
}

type MockStorefront struct{ mock.Mock }

func (m *MockStorefront) Theme(ctx context.Context) (domain.Theme, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Theme), args.Error(1)
}

func (m *MockStorefront) Events(ctx context.Context, r domain.EventRange) ([]domain.Event, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]domain.Event), args.Error(1)
}

type MockAdmin struct{ mock.Mock }

func (m *MockAdmin) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockAdmin) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockAdmin) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockAdmin) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdmin) ListDiscounts(ctx context.Context) ([]domain.DiscountCode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DiscountCode), args.Error(1)
}

func (m *MockAdmin) CreateDiscount(ctx context.Context, d domain.DiscountCode) (domain.DiscountCode, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.DiscountCode), args.Error(1)
}

func (m *MockAdmin) UpdateDiscount(ctx context.Context, d domain.DiscountCode) (domain.DiscountCode, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(domain.DiscountCode), args.Error(1)
}

func (m *MockAdmin) DeleteDiscount(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockAdmin) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockAdmin) UpdateOrderStatus(ctx context.Context, id string, to domain.OrderStatus) (domain.Order, error) {
	args := m.Called(ctx, id, to)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockAdmin) UpdateTheme(ctx context.Context, t domain.Theme) (domain.Theme, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(domain.Theme), args.Error(1)
}

func (m *MockAdmin) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *MockAdmin) UpdateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *MockAdmin) DeleteEvent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTerminalSettler struct{ mock.Mock }

func (m *MockTerminalSettler) Settle(sessionID string, outcome domain.PaymentOutcome) error {
	return m.Called(sessionID, outcome).Error(0)
}
