package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

// An AdminService serves the back-office.
type AdminService struct {
	st       Storages
	renderer port.DescriptionRenderer
	newID    func() string
	now      func() time.Time
}

func NewAdmin(st Storages, renderer port.DescriptionRenderer) AdminService {
	return AdminService{
		st:       st,
		renderer: renderer,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s AdminService) ListProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	const op = "AdminService.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f.IncludeInactive = true
	f.Normalize()

	ps, err := s.st.Products.ListProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range ps {
		render(s.renderer, &ps[i])
	}
	return ps, nil
}

func (s AdminService) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "AdminService.CreateProduct"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p.Normalize()
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p.ID = s.newID()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt

	if err := s.st.Products.StoreProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	render(s.renderer, &p)

	log.Info("product created", "productID", p.ID, "slug", p.Slug)
	return p, nil
}

func (s AdminService) UpdateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "AdminService.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.st.Products.ProductByID(ctx, p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p.Normalize()
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = s.now()

	if err := s.st.Products.UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	render(s.renderer, &p)
	return p, nil
}

func (s AdminService) DeleteProduct(ctx context.Context, productID string) error {
	const op = "AdminService.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.st.Products.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s AdminService) ListDiscounts(
	ctx context.Context,
) ([]domain.DiscountCode, error) {
	const op = "AdminService.ListDiscounts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ds, err := s.st.Discounts.ListDiscounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ds, nil
}

func (s AdminService) CreateDiscount(
	ctx context.Context, d domain.DiscountCode,
) (domain.DiscountCode, error) {
	const op = "AdminService.CreateDiscount"

	if err := ctx.Err(); err != nil {
		return domain.DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}

	d.Normalize()
	if err := d.Validate(); err != nil {
		return domain.DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}
	d.Uses = 0
	d.CreatedAt = s.now()

	if err := s.st.Discounts.StoreDiscount(ctx, d); err != nil {
		return domain.DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (s AdminService) UpdateDiscount(
	ctx context.Context, d domain.DiscountCode,
) (domain.DiscountCode, error) {
	const op = "AdminService.UpdateDiscount"

	if err := ctx.Err(); err != nil {
		return domain.DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}

	d.Normalize()
	current, err := s.st.Discounts.DiscountByCode(ctx, d.Code)
	if err != nil {
		return domain.DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := d.Validate(); err != nil {
		return domain.DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}
	d.Uses = current.Uses
	d.CreatedAt = current.CreatedAt

	if err := s.st.Discounts.UpdateDiscount(ctx, d); err != nil {
		return domain.DiscountCode{}, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func (s AdminService) DeleteDiscount(ctx context.Context, code string) error {
	const op = "AdminService.DeleteDiscount"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.st.Discounts.DeleteDiscount(ctx, domain.NormalizeCode(code))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s AdminService) ListOrders(
	ctx context.Context, f domain.OrderFilter,
) ([]domain.Order, error) {
	const op = "AdminService.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if f.Status != "" && !f.Status.Valid() {
		err := domain.ValidationError{Field: "status", Reason: "unknown order status"}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	f.Normalize()

	orders, err := s.st.Orders.ListOrders(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s AdminService) UpdateOrderStatus(
	ctx context.Context, orderID string, to domain.OrderStatus,
) (domain.Order, error) {
	const op = "AdminService.UpdateOrderStatus"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if !to.Valid() {
		err := domain.ValidationError{Field: "status", Reason: "unknown order status"}
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o, err := s.st.Orders.OrderByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if o.Status == to {
		return o, nil
	}

	from := o.Status
	if err := swapStatus(ctx, s.st.Orders, &o, to, s.now()); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order status changed", "orderID", o.ID, "from", from, "to", to)
	return o, nil
}

func (s AdminService) UpdateTheme(
	ctx context.Context, t domain.Theme,
) (domain.Theme, error) {
	const op = "AdminService.UpdateTheme"

	if err := ctx.Err(); err != nil {
		return domain.Theme{}, fmt.Errorf("%s: %w", op, err)
	}

	t.Normalize()
	if err := t.Validate(); err != nil {
		return domain.Theme{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.st.Theme.StoreTheme(ctx, t); err != nil {
		return domain.Theme{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func (s AdminService) CreateEvent(
	ctx context.Context, e domain.Event,
) (domain.Event, error) {
	const op = "AdminService.CreateEvent"

	if err := ctx.Err(); err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	e.Normalize()
	if err := e.Validate(); err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	e.ID = s.newID()

	if err := s.st.Events.StoreEvent(ctx, e); err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s AdminService) UpdateEvent(
	ctx context.Context, e domain.Event,
) (domain.Event, error) {
	const op = "AdminService.UpdateEvent"

	if err := ctx.Err(); err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	e.Normalize()
	if err := e.Validate(); err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.st.Events.UpdateEvent(ctx, e); err != nil {
		return domain.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (s AdminService) DeleteEvent(ctx context.Context, eventID string) error {
	const op = "AdminService.DeleteEvent"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.st.Events.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func swapStatus(
	ctx context.Context,
	st port.OrdersStorage,
	o *domain.Order,
	to domain.OrderStatus,
	now time.Time,
) error {
	if !o.Status.CanTransition(to) {
		return fmt.Errorf(
			"%s -> %s: %w", o.Status, to, domain.ErrInvalidTransition,
		)
	}
	if err := st.SwapOrderStatus(ctx, o.ID, o.Status, to); err != nil {
		return err
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}
