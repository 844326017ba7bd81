package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/config"
)

// Clients bundles the long-lived store connections shared by repositories and services.
// It is built once in main and closed on shutdown.
type Clients struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
	log   zerolog.Logger
}

// Open connects to PostgreSQL and Redis. A failure on either closes whatever was opened.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Clients, error) {
	pool, err := NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	rdb, err := NewRedisClient(ctx, cfg, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Clients{Pool: pool, Redis: rdb, log: log}, nil
}

// Close releases both connections.
func (c *Clients) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.log.Warn().Err(err).Msg("Redis close failed")
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
	c.log.Info().Msg("Store connections closed")
}
