package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizbank-backend/internal/config"
)

// releaseScript deletes the lock only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSubmissionGuard is a SubmissionGuard backed by a Redis SET NX lock with a TTL.
type RedisSubmissionGuard struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewRedisSubmissionGuard creates a guard whose locks expire after ttl.
func NewRedisSubmissionGuard(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisSubmissionGuard {
	return &RedisSubmissionGuard{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "submission_guard").Logger(),
	}
}

// Acquire takes the lock for (accountID, paperID).
func (g *RedisSubmissionGuard) Acquire(ctx context.Context, accountID, paperID string) (func(), bool, error) {
	key := config.CacheKey.SubmissionLockKey(accountID, paperID)
	token := uuid.NewString()

	ok, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return func() {}, false, err
	}
	if !ok {
		return func() {}, false, nil
	}

	release := func() {
		// The request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, g.rdb, []string{key}, token).Err(); err != nil {
			g.log.Warn().Err(err).Str("key", key).Msg("Submission lock release failed")
		}
	}
	return release, true, nil
}
