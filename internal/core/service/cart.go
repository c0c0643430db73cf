package service

import (
	"context"
	"fmt"

	"github.com/niksmo/choco-shop/internal/core/domain"
)

func (s Service) CreateCart(ctx context.Context) (domain.CartView, error) {
	const op = "Service.CreateCart"

	if err := ctx.Err(); err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	c := domain.Cart{ID: s.newID(), Items: []domain.CartItem{}, UpdatedAt: s.now()}
	if err := s.st.Carts.StoreCart(ctx, c); err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.NewCartView(c, nil), nil
}

func (s Service) GetCart(
	ctx context.Context, cartID string,
) (domain.CartView, error) {
	const op = "Service.GetCart"

	if err := ctx.Err(); err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.st.Carts.ReadCart(ctx, cartID)
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.cartView(ctx, c)
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s Service) AddItem(
	ctx context.Context, cartID, productID string, qty int,
) (domain.CartView, error) {
	const op = "Service.AddItem"

	return s.modifyCart(ctx, op, cartID, func(c *domain.Cart) error {
		p, err := s.activeProduct(ctx, productID)
		if err != nil {
			return err
		}
		newQty, err := c.Add(p.ID, qty)
		if err != nil {
			return err
		}
		return p.Purchasable(newQty)
	})
}

func (s Service) SetItemQuantity(
	ctx context.Context, cartID, productID string, qty int,
) (domain.CartView, error) {
	const op = "Service.SetItemQuantity"

	return s.modifyCart(ctx, op, cartID, func(c *domain.Cart) error {
		if qty == 0 {
			c.Remove(productID)
			return nil
		}
		p, err := s.activeProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := c.Set(p.ID, qty); err != nil {
			return err
		}
		return p.Purchasable(qty)
	})
}

func (s Service) RemoveItem(
	ctx context.Context, cartID, productID string,
) (domain.CartView, error) {
	const op = "Service.RemoveItem"

	return s.modifyCart(ctx, op, cartID, func(c *domain.Cart) error {
		c.Remove(productID)
		return nil
	})
}

func (s Service) ClearCart(ctx context.Context, cartID string) error {
	const op = "Service.ClearCart"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.st.Carts.DeleteCart(ctx, cartID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) modifyCart(
	ctx context.Context, op, cartID string, fn func(*domain.Cart) error,
) (domain.CartView, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.st.Carts.ReadCart(ctx, cartID)
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := fn(&c); err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	c.UpdatedAt = s.now()
	if err := s.st.Carts.StoreCart(ctx, c); err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.cartView(ctx, c)
	if err != nil {
		return domain.CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s Service) cartView(
	ctx context.Context, c domain.Cart,
) (domain.CartView, error) {
	products, err := s.productsOf(ctx, c)
	if err != nil {
		return domain.CartView{}, err
	}
	v := domain.NewCartView(c, products)
	for i := range v.Lines {
		render(s.renderer, &v.Lines[i].Product)
	}
	return v, nil
}
