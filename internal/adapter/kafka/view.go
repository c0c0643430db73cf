package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
)

var _ port.SalesView = (*SalesView)(nil)

type iterable interface {
	Iterator() (goka.Iterator, error)
}

// A SalesView serves the bestsellers group table.
type SalesView struct {
	gv    *goka.View
	table iterable
}

func NewSalesView(
	seedBrokers []string, group string, opts ...goka.ViewOption,
) (SalesView, error) {
	const op = "NewSalesView"

	opts = append([]goka.ViewOption{withNoLogViewOpt()}, opts...)
	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		unitsCodec{},
		opts...,
	)
	if err != nil {
		return SalesView{}, opErr(err, op)
	}

	return SalesView{gv: gv, table: gv}, nil
}

func (v SalesView) Run(ctx context.Context) {
	const op = "SalesView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// ProductSales returns units sold of every product in the table.
func (v SalesView) ProductSales(ctx context.Context) ([]domain.ProductSales, error) {
	const op = "SalesView.ProductSales"

	if err := ctx.Err(); err != nil {
		return nil, opErr(err, op)
	}

	it, err := v.table.Iterator()
	if err != nil {
		return nil, opErr(err, op)
	}
	defer it.Release()

	var sales []domain.ProductSales
	for it.Next() {
		val, err := it.Value()
		if err != nil {
			return nil, opErr(err, op)
		}
		u, ok := val.(units)
		if !ok {
			err := fmt.Errorf("%w: %T", ErrInvalidValueType, val)
			return nil, opErr(err, op)
		}
		sales = append(sales, domain.ProductSales{
			ProductID: it.Key(), UnitsSold: int64(u),
		})
	}
	if err := it.Err(); err != nil {
		return nil, opErr(err, op)
	}
	return sales, nil
}
