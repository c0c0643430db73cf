package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/choco-shop/internal/core/domain"
)

func (s Service) ValidateDiscount(
	ctx context.Context, code string, subtotalCents int64,
) (int64, error) {
	const op = "Service.ValidateDiscount"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	off, err := s.applyDiscount(ctx, domain.NormalizeCode(code), subtotalCents)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return off, nil
}

func (s Service) applyDiscount(
	ctx context.Context, code string, subtotal int64,
) (int64, error) {
	d, err := s.st.Discounts.DiscountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.DiscountRejectedError{Code: code, Reason: "unknown code"}
		}
		return 0, err
	}
	return d.Apply(subtotal, s.now())
}

// PlaceOrder turns the cart into a pending order and opens
// a hosted checkout session for it.
//
// The cart is removed once the session is open.
func (s Service) PlaceOrder(
	ctx context.Context, cartID string, c domain.Customer, discountCode string,
) (domain.Order, error) {
	const op = "Service.PlaceOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	c.Normalize()
	if err := c.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.draftOrder(ctx, cartID, c)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	var discount int64
	if code := domain.NormalizeCode(discountCode); code != "" {
		discount, err = s.applyDiscount(ctx, code, order.SubtotalCents)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		order.DiscountCode = code
	}
	order.PriceItems(discount, s.cfg.Shipping)

	if err := s.st.Orders.StoreOrder(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	session, err := s.gateway.CreateSession(ctx, order)
	if err != nil {
		s.failOrder(ctx, &order)
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.st.Orders.SetPaymentSession(ctx, order.ID, session); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	order.PaymentSessionID = session.ID
	order.PaymentURL = session.URL

	if err := s.st.Carts.DeleteCart(ctx, cartID); err != nil {
		log.Warn("failed to remove checked out cart", "cartID", cartID, "err", err)
	}

	s.publishPlaced(ctx, order)

	log.Info("order placed", "orderID", order.ID, "total", order.TotalCents)
	return order, nil
}

// failOrder marks the order without a payment session as failed,
// the cart is kept for another attempt.
func (s Service) failOrder(ctx context.Context, o *domain.Order) {
	const op = "Service.failOrder"
	log := slog.With("op", op)

	ctx = context.WithoutCancel(ctx)
	if err := swapStatus(ctx, s.st.Orders, o, domain.OrderFailed, s.now()); err != nil {
		log.Error("failed to mark order", "orderID", o.ID, "err", err)
		return
	}
	log.Warn("order failed without payment session", "orderID", o.ID)
}

func (s Service) draftOrder(
	ctx context.Context, cartID string, c domain.Customer,
) (domain.Order, error) {
	cart, err := s.st.Carts.ReadCart(ctx, cartID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(cart.Items) == 0 {
		return domain.Order{}, domain.ErrCartEmpty
	}

	products, err := s.productsOf(ctx, cart)
	if err != nil {
		return domain.Order{}, err
	}

	now := s.now()
	order := domain.Order{
		ID:        s.newID(),
		Status:    domain.OrderPending,
		Customer:  c,
		Currency:  s.cfg.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.Number = domain.OrderNumber(order.ID, now)

	// lines of retired products are dropped as in the cart view
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok || !p.Active {
			continue
		}
		if err := p.Purchasable(it.Quantity); err != nil {
			return domain.Order{}, fmt.Errorf("product %s: %w", it.ProductID, err)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:      p.ID,
			Name:           p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       it.Quantity,
		})
	}
	if len(order.Items) == 0 {
		return domain.Order{}, domain.ErrCartEmpty
	}
	order.PriceItems(0, s.cfg.Shipping)
	return order, nil
}

func (s Service) GetOrder(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	const op = "Service.GetOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o, err := s.st.Orders.OrderByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// ConfirmPayment asks the gateway for the session outcome and records it.
//
// An unsettled session leaves the order pending.
func (s Service) ConfirmPayment(
	ctx context.Context, sessionID string,
) (domain.Order, error) {
	const op = "Service.ConfirmPayment"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	outcome, err := s.gateway.SessionOutcome(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrPaymentPending) {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		o, err := s.st.Orders.OrderByPaymentSession(ctx, sessionID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}
		return o, nil
	}

	o, err := s.RecordPayment(ctx, sessionID, outcome)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// RecordPayment applies the payment outcome to the order of the session.
//
// Recording the outcome the order already reflects is a no-op.
func (s Service) RecordPayment(
	ctx context.Context, sessionID string, outcome domain.PaymentOutcome,
) (domain.Order, error) {
	const op = "Service.RecordPayment"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if !outcome.Valid() {
		err := domain.ValidationError{Field: "outcome", Reason: "must be succeeded or failed"}
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o, err := s.st.Orders.OrderByPaymentSession(ctx, sessionID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	to := outcome.Status()
	if o.Status == to {
		return o, nil
	}

	if err := swapStatus(ctx, s.st.Orders, &o, to, s.now()); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	if to == domain.OrderPaid {
		s.publishPaid(ctx, o)
	}

	log.Info("payment recorded", "orderID", o.ID, "outcome", outcome)
	return o, nil
}

func (s Service) publishPlaced(ctx context.Context, o domain.Order) {
	const op = "Service.publishPlaced"

	if s.producer == nil {
		return
	}
	evt := domain.OrderPlacedEvent{
		OrderID:    o.ID,
		Items:      o.Items,
		TotalCents: o.TotalCents,
		Currency:   o.Currency,
		PlacedAt:   o.CreatedAt,
	}
	if err := s.producer.ProduceOrderPlaced(ctx, evt); err != nil {
		slog.Error("failed to publish event", "op", op, "orderID", o.ID, "err", err)
	}
}

func (s Service) publishPaid(ctx context.Context, o domain.Order) {
	const op = "Service.publishPaid"

	if s.producer == nil {
		return
	}
	evt := domain.OrderPaidEvent{
		OrderID:    o.ID,
		TotalCents: o.TotalCents,
		Currency:   o.Currency,
		PaidAt:     o.UpdatedAt,
	}
	if err := s.producer.ProduceOrderPaid(ctx, evt); err != nil {
		slog.Error("failed to publish event", "op", op, "orderID", o.ID, "err", err)
	}
}
