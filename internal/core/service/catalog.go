package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/niksmo/choco-shop/internal/core/domain"
)

func (s Service) ListProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f.IncludeInactive = false
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

func (s Service) GetProduct(
	ctx context.Context, slug string,
) (domain.Product, error) {
	const op = "Service.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.st.Products.ProductBySlug(ctx, domain.Slugify(slug))
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if !p.Active {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	render(s.renderer, &p)
	return p, nil
}

// Bestsellers returns up to n active products ordered by units sold.
//
// Returns an empty list when the sales view is not configured.
func (s Service) Bestsellers(
	ctx context.Context, n int,
) ([]domain.Bestseller, error) {
	const op = "Service.Bestsellers"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if n <= 0 {
		n = defaultBestsellers
	}
	n = min(n, domain.MaxPageLimit)

	out := []domain.Bestseller{}
	if s.sales == nil {
		log.Debug("sales view is not configured")
		return out, nil
	}

	sales, err := s.sales.ProductSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(sales) == 0 {
		return out, nil
	}

	sort.Slice(sales, func(i, j int) bool {
		if sales[i].UnitsSold != sales[j].UnitsSold {
			return sales[i].UnitsSold > sales[j].UnitsSold
		}
		return sales[i].ProductID < sales[j].ProductID
	})

	ids := make([]string, len(sales))
	for i, v := range sales {
		ids[i] = v.ProductID
	}

	products, err := s.st.Products.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, v := range sales {
		if len(out) == n {
			break
		}
		p, ok := products[v.ProductID]
		if !ok || !p.Active {
			continue
		}
		render(s.renderer, &p)
		out = append(out, domain.Bestseller{Product: p, UnitsSold: v.UnitsSold})
	}
	return out, nil
}

func (s Service) productsOf(
	ctx context.Context, c domain.Cart,
) (map[string]domain.Product, error) {
	if len(c.Items) == 0 {
		return map[string]domain.Product{}, nil
	}
	return s.st.Products.ProductsByIDs(ctx, c.ProductIDs())
}

func (s Service) activeProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	p, err := s.st.Products.ProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.Active {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}
