// Package ratelimit construye el limitador de peticiones de ulule/limiter:
// store en memoria por defecto o Redis compartido entre réplicas si REDIS_ADDR está definido.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/jhoicas/pos-insights-api/pkg/config"
)

const keyPrefix = "pos-insights:ratelimit"

// Limiter limitador listo para el middleware y el cierre de su conexión (nil en memoria).
type Limiter struct {
	*limiter.Limiter
	client *redis.Client
	Store  string // memory | redis
}

// New construye el limitador para rate ("30-M" = 30 por minuto).
func New(ctx context.Context, rate string, cfg config.RedisConfig) (*Limiter, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("rate limit %q: %w", rate, err)
	}

	if cfg.Addr == "" {
		store := memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          keyPrefix,
			CleanUpInterval: time.Minute,
		})
		return &Limiter{Limiter: limiter.New(store, r), Store: "memory"}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store redis: %w", err)
	}
	return &Limiter{Limiter: limiter.New(store, r), client: client, Store: "redis"}, nil
}

// Close libera la conexión a Redis si la hay.
func (l *Limiter) Close() error {
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}
