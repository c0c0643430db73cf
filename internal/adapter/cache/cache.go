package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 3 * time.Second
	dialTimeout  = 5 * time.Second
)

type Client struct {
	*redis.Client
}

// NewClient connects to the redis url and pings it.
func NewClient(ctx context.Context, url string) (Client, error) {
	const op = "cache.NewClient"
	log := slog.With("op", op)

	opts, err := redis.ParseURL(url)
	if err != nil {
		return Client{}, fmt.Errorf("%s: invalid url: %w", op, err)
	}
	opts.ReadTimeout = readTimeout
	opts.WriteTimeout = writeTimeout
	opts.DialTimeout = dialTimeout

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return Client{}, fmt.Errorf("%s: redis is unavailable: %w", op, err)
	}
	log.Info("redis is available", "addr", opts.Addr)
	return Client{rdb}, nil
}

func (c Client) Close() {
	const op = "cache.Client.Close"
	log := slog.With("op", op)

	log.Info("closing redis client...")
	if err := c.Client.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("redis client is closed")
}
