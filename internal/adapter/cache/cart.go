package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.CartStorage = (*CartsRepository)(nil)

const DefaultCartTTL = 7 * 24 * time.Hour

type cartRecord struct {
	Items     []cartItemRecord `json:"items"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type cartItemRecord struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartsRepository keeps carts as json values. Every store
// refreshes the expiry, so ttl counts from the last change.
type CartsRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCartsRepository(rdb redis.Cmdable, ttl time.Duration) CartsRepository {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return CartsRepository{rdb: rdb, ttl: ttl}
}

func cartKey(id string) string {
	return "cart:" + id
}

func (r CartsRepository) ReadCart(ctx context.Context, id string) (domain.Cart, error) {
	const op = "CartsRepository.ReadCart"

	raw, err := r.rdb.Get(ctx, cartKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	var rec cartRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	c := domain.Cart{ID: id, UpdatedAt: rec.UpdatedAt}
	for _, it := range rec.Items {
		c.Items = append(c.Items, domain.CartItem{
			ProductID: it.ProductID, Quantity: it.Quantity,
		})
	}
	return c, nil
}

func (r CartsRepository) StoreCart(ctx context.Context, c domain.Cart) error {
	const op = "CartsRepository.StoreCart"

	rec := cartRecord{Items: []cartItemRecord{}, UpdatedAt: c.UpdatedAt}
	for _, it := range c.Items {
		rec.Items = append(rec.Items, cartItemRecord{
			ProductID: it.ProductID, Quantity: it.Quantity,
		})
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.rdb.Set(ctx, cartKey(c.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r CartsRepository) DeleteCart(ctx context.Context, id string) error {
	const op = "CartsRepository.DeleteCart"
	log := slog.With("op", op)

	n, err := r.rdb.Del(ctx, cartKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		log.Debug("cart already gone", "cart_id", id)
	}
	return nil
}
