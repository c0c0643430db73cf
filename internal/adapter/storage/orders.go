package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

var _ port.OrdersStorage = (*OrdersRepository)(nil)

const orderColumns = `
	id, number, status, customer_name, customer_email, customer_phone,
	customer_address, subtotal_cents, discount_code, discount_cents,
	shipping_cents, total_cents, currency, payment_session_id, payment_url,
	created_at, updated_at`

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

func (r OrdersRepository) StoreOrder(
	ctx context.Context, o domain.Order,
) error {
	const op = "OrdersRepository.StoreOrder"

	err := inTx(ctx, r.sqldb, op, func(tx *sql.Tx) error {
		if err := r.insertOrder(ctx, tx, o); err != nil {
			return err
		}
		if err := r.insertItems(ctx, tx, o); err != nil {
			return err
		}
		if err := r.takeStock(ctx, tx, o.Items); err != nil {
			return err
		}
		if o.DiscountCode != "" {
			return r.countDiscountUse(ctx, tx, o.DiscountCode)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r OrdersRepository) insertOrder(
	ctx context.Context, tx *sql.Tx, o domain.Order,
) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`

	_, err := tx.ExecContext(ctx, query,
		o.ID, o.Number, o.Status, o.Customer.Name, o.Customer.Email,
		o.Customer.Phone, o.Customer.Address, o.SubtotalCents,
		nullString(o.DiscountCode), o.DiscountCents, o.ShippingCents,
		o.TotalCents, o.Currency, nullString(o.PaymentSessionID),
		o.PaymentURL, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", mapErr(err))
	}
	return nil
}

func (r OrdersRepository) insertItems(
	ctx context.Context, tx *sql.Tx, o domain.Order,
) (err error) {
	query := `
		INSERT INTO order_items (
			order_id, position, product_id, name, unit_price_cents, quantity
		)
		VALUES ($1, $2, $3, $4, $5, $6);`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare stmt: %w", err)
	}
	defer func() {
		if cErr := stmt.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("failed to close prepared stmt: %w", cErr)
		}
	}()

	for i, it := range o.Items {
		_, err := stmt.ExecContext(ctx,
			o.ID, i, it.ProductID, it.Name, it.UnitPriceCents, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}
	return nil
}

// takeStock decrements the stock in product id order so concurrent
// orders lock the rows in the same order.
func (r OrdersRepository) takeStock(
	ctx context.Context, tx *sql.Tx, items []domain.OrderItem,
) error {
	query := `
		UPDATE products SET stock = stock - $2
		WHERE id = $1 AND active AND stock >= $2;`

	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b domain.OrderItem) int {
		return strings.Compare(a.ProductID, b.ProductID)
	})

	for _, it := range sorted {
		res, err := tx.ExecContext(ctx, query, it.ProductID, it.Quantity)
		if err != nil {
			return fmt.Errorf("failed to take stock: %w", err)
		}
		if err := one(res); err != nil {
			return r.stockError(ctx, tx, it.ProductID)
		}
	}
	return nil
}

func (r OrdersRepository) stockError(
	ctx context.Context, tx *sql.Tx, productID string,
) error {
	query := `SELECT stock FROM products WHERE id = $1 AND active;`

	var available int
	err := tx.QueryRowContext(ctx, query, productID).Scan(&available)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read stock: %w", err)
	}
	return domain.StockError{ProductID: productID, Available: available}
}

func (r OrdersRepository) countDiscountUse(
	ctx context.Context, tx *sql.Tx, code string,
) error {
	query := `
		UPDATE discount_codes SET uses = uses + 1
		WHERE code = $1 AND active AND (max_uses = 0 OR uses < max_uses);`

	res, err := tx.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to count discount use: %w", err)
	}
	if err := one(res); err != nil {
		return domain.DiscountRejectedError{Code: code, Reason: "usage limit reached"}
	}
	return nil
}

func (r OrdersRepository) OrderByID(
	ctx context.Context, id string,
) (domain.Order, error) {
	const op = "OrdersRepository.OrderByID"

	o, err := r.orderWhere(ctx, "id = $1", id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r OrdersRepository) OrderByPaymentSession(
	ctx context.Context, sessionID string,
) (domain.Order, error) {
	const op = "OrdersRepository.OrderByPaymentSession"

	o, err := r.orderWhere(ctx, "payment_session_id = $1", sessionID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r OrdersRepository) orderWhere(
	ctx context.Context, cond string, arg any,
) (domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + cond + `;`
	o, err := scanOrder(r.sqldb.QueryRowContext(ctx, query, arg))
	if err != nil {
		return domain.Order{}, mapErr(err)
	}

	items, err := r.items(ctx, []string{o.ID})
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r OrdersRepository) ListOrders(
	ctx context.Context, f domain.OrderFilter,
) ([]domain.Order, error) {
	const op = "OrdersRepository.ListOrders"

	args := []any{}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if f.Status != "" {
		args = append(args, f.Status)
		query += ` WHERE status = $1`
	}
	n := len(args)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(n+1) +
		` OFFSET $` + strconv.Itoa(n+2) + `;`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r OrdersRepository) items(
	ctx context.Context, orderIDs []string,
) (map[string][]domain.OrderItem, error) {
	query := `
		SELECT order_id, product_id, name, unit_price_cents, quantity
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position;`

	rows, err := r.sqldb.QueryContext(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			it      domain.OrderItem
		)
		err := rows.Scan(
			&orderID, &it.ProductID, &it.Name, &it.UnitPriceCents, &it.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items[orderID] = append(items[orderID], it)
	}
	return items, rows.Err()
}

func (r OrdersRepository) SetPaymentSession(
	ctx context.Context, orderID string, s domain.PaymentSession,
) error {
	const op = "OrdersRepository.SetPaymentSession"

	query := `
		UPDATE orders SET payment_session_id = $2, payment_url = $3
		WHERE id = $1;`

	res, err := r.sqldb.ExecContext(ctx, query, orderID, s.ID, s.URL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := one(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r OrdersRepository) SwapOrderStatus(
	ctx context.Context, orderID string, from, to domain.OrderStatus,
) error {
	const op = "OrdersRepository.SwapOrderStatus"

	query := `
		UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2;`

	res, err := r.sqldb.ExecContext(ctx, query, orderID, from, to)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}
	if err := one(res); err != nil {
		// status moved under our feet
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidTransition)
	}
	return nil
}

func scanOrder(s scanner) (o domain.Order, err error) {
	var discountCode, sessionID sql.NullString
	err = s.Scan(
		&o.ID, &o.Number, &o.Status, &o.Customer.Name, &o.Customer.Email,
		&o.Customer.Phone, &o.Customer.Address, &o.SubtotalCents,
		&discountCode, &o.DiscountCents, &o.ShippingCents, &o.TotalCents,
		&o.Currency, &sessionID, &o.PaymentURL, &o.CreatedAt, &o.UpdatedAt,
	)
	o.DiscountCode = discountCode.String
	o.PaymentSessionID = sessionID.String
	return o, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
