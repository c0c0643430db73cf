package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

var (
	_ port.Catalog    = (*Service)(nil)
	_ port.Carts      = (*Service)(nil)
	_ port.Checkout   = (*Service)(nil)
	_ port.Storefront = (*Service)(nil)
	_ port.Admin      = (*AdminService)(nil)
)

const defaultBestsellers = 8

type Config struct {
	Currency string
	Shipping domain.ShippingPolicy
}

// Storages groups the outbound storage ports.
type Storages struct {
	Products  port.ProductsStorage
	Discounts port.DiscountsStorage
	Orders    port.OrdersStorage
	Theme     port.ThemeStorage
	Events    port.EventsStorage
	Carts     port.CartStorage
}

// A Service serves the storefront: catalog, carts, checkout, theme and calendar.
//
// SalesView, OrderEventsProducer and DescriptionRenderer are optional.
type Service struct {
	cfg      Config
	st       Storages
	gateway  port.PaymentGateway
	producer port.OrderEventsProducer
	sales    port.SalesView
	renderer port.DescriptionRenderer
	newID    func() string
	now      func() time.Time
}

func New(
	cfg Config,
	st Storages,
	gateway port.PaymentGateway,
	producer port.OrderEventsProducer,
	sales port.SalesView,
	renderer port.DescriptionRenderer,
) Service {
	return Service{
		cfg:      cfg,
		st:       st,
		gateway:  gateway,
		producer: producer,
		sales:    sales,
		renderer: renderer,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s Service) Theme(ctx context.Context) (domain.Theme, error) {
	const op = "Service.Theme"

	if err := ctx.Err(); err != nil {
		return domain.Theme{}, fmt.Errorf("%s: %w", op, err)
	}

	return readTheme(ctx, s.st.Theme, op)
}

func (s Service) Events(
	ctx context.Context, r domain.EventRange,
) ([]domain.Event, error) {
	const op = "Service.Events"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	evts, err := s.st.Events.ListEvents(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return evts, nil
}

func readTheme(
	ctx context.Context, st port.ThemeStorage, op string,
) (domain.Theme, error) {
	t, err := st.ReadTheme(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultTheme(), nil
		}
		return domain.Theme{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func render(r port.DescriptionRenderer, p *domain.Product) {
	if r == nil {
		return
	}
	p.DescriptionHTML = r.Render(p.Description)
}
