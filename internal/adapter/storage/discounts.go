package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

var _ port.DiscountsStorage = (*DiscountsRepository)(nil)

const discountColumns = `
	code, kind, value, min_subtotal_cents, max_uses,
	uses, expires_at, active, created_at`

type DiscountsRepository struct {
	sqldb sqldb
}

func NewDiscountsRepository(sqldb sqldb) DiscountsRepository {
	return DiscountsRepository{sqldb}
}

func (r DiscountsRepository) DiscountByCode(
	ctx context.Context, code string,
) (domain.DiscountCode, error) {
	const op = "DiscountsRepository.DiscountByCode"

	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE code = $1;`
	d, err := scanDiscount(r.sqldb.QueryRowContext(ctx, query, code))
	if err != nil {
		return domain.DiscountCode{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return d, nil
}

func (r DiscountsRepository) ListDiscounts(
	ctx context.Context,
) ([]domain.DiscountCode, error) {
	const op = "DiscountsRepository.ListDiscounts"

	query := `SELECT ` + discountColumns + ` FROM discount_codes ORDER BY created_at DESC;`
	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ds := []domain.DiscountCode{}
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ds = append(ds, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ds, nil
}

func (r DiscountsRepository) StoreDiscount(
	ctx context.Context, d domain.DiscountCode,
) error {
	const op = "DiscountsRepository.StoreDiscount"

	query := `
		INSERT INTO discount_codes (` + discountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err := r.sqldb.ExecContext(ctx, query,
		d.Code, d.Kind, d.Value, d.MinSubtotalCents, d.MaxUses,
		d.Uses, d.ExpiresAt, d.Active, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return nil
}

func (r DiscountsRepository) UpdateDiscount(
	ctx context.Context, d domain.DiscountCode,
) error {
	const op = "DiscountsRepository.UpdateDiscount"

	query := `
		UPDATE discount_codes SET
			kind = $2,
			value = $3,
			min_subtotal_cents = $4,
			max_uses = $5,
			expires_at = $6,
			active = $7
		WHERE code = $1;`

	res, err := r.sqldb.ExecContext(ctx, query,
		d.Code, d.Kind, d.Value, d.MinSubtotalCents, d.MaxUses,
		d.ExpiresAt, d.Active,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := one(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r DiscountsRepository) DeleteDiscount(ctx context.Context, code string) error {
	const op = "DiscountsRepository.DeleteDiscount"

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM discount_codes WHERE code = $1;`, code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := one(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanDiscount(s scanner) (d domain.DiscountCode, err error) {
	var expiresAt sql.NullTime
	err = s.Scan(
		&d.Code, &d.Kind, &d.Value, &d.MinSubtotalCents, &d.MaxUses,
		&d.Uses, &expiresAt, &d.Active, &d.CreatedAt,
	)
	if expiresAt.Valid {
		d.ExpiresAt = &expiresAt.Time
	}
	return d, err
}
