package service

import (
	"context"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockProducts struct{ mock.Mock }

func (m *MockProducts) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProducts) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProducts) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProducts) ProductsByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProducts) StoreProduct(ctx context.Context, p domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProducts) UpdateProduct(ctx context.Context, p domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProducts) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockDiscounts struct{ mock.Mock }

func (m *MockDiscounts) DiscountByCode(ctx context.Context, code string) (domain.DiscountCode, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.DiscountCode), args.Error(1)
}

func (m *MockDiscounts) ListDiscounts(ctx context.Context) ([]domain.DiscountCode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DiscountCode), args.Error(1)
}

func (m *MockDiscounts) StoreDiscount(ctx context.Context, d domain.DiscountCode) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDiscounts) UpdateDiscount(ctx context.Context, d domain.DiscountCode) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDiscounts) DeleteDiscount(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type MockOrders struct{ mock.Mock }

func (m *MockOrders) StoreOrder(ctx context.Context, o domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrders) OrderByID(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrders) OrderByPaymentSession(ctx context.Context, sessionID string) (domain.Order, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrders) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrders) SetPaymentSession(ctx context.Context, orderID string, s domain.PaymentSession) error {
	return m.Called(ctx, orderID, s).Error(0)
}

func (m *MockOrders) SwapOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	return m.Called(ctx, orderID, from, to).Error(0)
}

type MockTheme struct{ mock.Mock }

func (m *MockTheme) ReadTheme(ctx context.Context) (domain.Theme, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Theme), args.Error(1)
}

func (m *MockTheme) StoreTheme(ctx context.Context, t domain.Theme) error {
	return m.Called(ctx, t).Error(0)
}

type MockCarts struct{ mock.Mock }

func (m *MockCarts) ReadCart(ctx context.Context, id string) (domain.Cart, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockCarts) StoreCart(ctx context.Context, c domain.Cart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCarts) DeleteCart(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreateSession(ctx context.Context, o domain.Order) (domain.PaymentSession, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(domain.PaymentSession), args.Error(1)
}

func (m *MockGateway) SessionOutcome(ctx context.Context, sessionID string) (domain.PaymentOutcome, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.PaymentOutcome), args.Error(1)
}

type MockProducer struct{ mock.Mock }

func (m *MockProducer) ProduceOrderPlaced(ctx context.Context, evt domain.OrderPlacedEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *MockProducer) ProduceOrderPaid(ctx context.Context, evt domain.OrderPaidEvent) error {
	return m.Called(ctx, evt).Error(0)
}

type MockSales struct{ mock.Mock }

func (m *MockSales) ProductSales(ctx context.Context) ([]domain.ProductSales, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ProductSales), args.Error(1)
}

type paragraphRenderer struct{}

func (paragraphRenderer) Render(md string) string {
	return "<p>" + md + "</p>"
}
