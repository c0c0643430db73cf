package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

var _ port.ProductsStorage = (*ProductsRepository)(nil)

const productColumns = `
	id, slug, name, description, category, price_cents,
	stock, image_url, featured, active, created_at, updated_at`

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) ListProducts(
	ctx context.Context, f domain.ProductFilter,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ListProducts"

	query, args := r.listQuery(f)
	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ps := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) listQuery(f domain.ProductFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !f.IncludeInactive {
		where = append(where, "active")
	}
	if f.FeaturedOnly {
		where = append(where, "featured")
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		where = append(where, "(name ILIKE "+p+" OR description ILIKE "+p+")")
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products")
	if len(where) != 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY featured DESC, name ASC")
	b.WriteString(" LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset))
	return b.String(), args
}

func (r ProductsRepository) ProductBySlug(
	ctx context.Context, slug string,
) (domain.Product, error) {
	const op = "ProductsRepository.ProductBySlug"

	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1;`
	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, slug))
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return p, nil
}

func (r ProductsRepository) ProductByID(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "ProductsRepository.ProductByID"

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return p, nil
}

func (r ProductsRepository) ProductsByIDs(
	ctx context.Context, ids []string,
) (map[string]domain.Product, error) {
	const op = "ProductsRepository.ProductsByIDs"

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[]);`
	rows, err := r.sqldb.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	defer rows.Close()

	ps := make(map[string]domain.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) StoreProduct(
	ctx context.Context, p domain.Product,
) error {
	const op = "ProductsRepository.StoreProduct"

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := r.sqldb.ExecContext(ctx, query,
		p.ID, p.Slug, p.Name, p.Description, p.Category, p.PriceCents,
		p.Stock, p.ImageURL, p.Featured, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return nil
}

func (r ProductsRepository) UpdateProduct(
	ctx context.Context, p domain.Product,
) error {
	const op = "ProductsRepository.UpdateProduct"

	query := `
		UPDATE products SET
			slug = $2,
			name = $3,
			description = $4,
			category = $5,
			price_cents = $6,
			stock = $7,
			image_url = $8,
			featured = $9,
			active = $10,
			updated_at = $11
		WHERE id = $1;`

	res, err := r.sqldb.ExecContext(ctx, query,
		p.ID, p.Slug, p.Name, p.Description, p.Category, p.PriceCents,
		p.Stock, p.ImageURL, p.Featured, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := one(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductsRepository.DeleteProduct"

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := one(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanProduct(s scanner) (p domain.Product, err error) {
	err = s.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.Category, &p.PriceCents,
		&p.Stock, &p.ImageURL, &p.Featured, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
