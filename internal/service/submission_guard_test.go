package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/quizbank-backend/internal/config"
	"github.com/stemsi/quizbank-backend/internal/service"
)

func TestRedisSubmissionGuard(t *testing.T) {
	mr, rdb := newRedis(t)
	guard := service.NewRedisSubmissionGuard(rdb, time.Minute, nopLog)
	ctx := context.Background()

	release, ok, err := guard.Acquire(ctx, "acc-1", "paper-1")
	if err != nil || !ok {
		t.Fatalf("first acquire = %v, %v", ok, err)
	}
	key := config.CacheKey.SubmissionLockKey("acc-1", "paper-1")
	if !mr.Exists(key) {
		t.Fatalf("lock key %q missing", key)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Errorf("lock ttl = %v", ttl)
	}

	if _, ok, err := guard.Acquire(ctx, "acc-1", "paper-1"); err != nil || ok {
		t.Errorf("second acquire = %v, %v; want held", ok, err)
	}
	if _, ok, _ := guard.Acquire(ctx, "acc-1", "paper-2"); !ok {
		t.Error("other paper should not be blocked")
	}

	release()
	if mr.Exists(key) {
		t.Error("lock not released")
	}
	if _, ok, _ := guard.Acquire(ctx, "acc-1", "paper-1"); !ok {
		t.Error("acquire after release failed")
	}
}

func TestRedisSubmissionGuard_ReleaseKeepsForeignLock(t *testing.T) {
	mr, rdb := newRedis(t)
	guard := service.NewRedisSubmissionGuard(rdb, time.Minute, nopLog)

	release, ok, _ := guard.Acquire(context.Background(), "acc-1", "paper-1")
	if !ok {
		t.Fatal("acquire failed")
	}
	key := config.CacheKey.SubmissionLockKey("acc-1", "paper-1")

	// The lock expired and someone else took it.
	mr.FastForward(2 * time.Minute)
	if err := mr.Set(key, "someone-else"); err != nil {
		t.Fatal(err)
	}

	release()
	if got, _ := mr.Get(key); got != "someone-else" {
		t.Errorf("foreign lock = %q, want kept", got)
	}
}

func TestRedisSubmissionGuard_RedisDown(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatal(err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()
	guard := service.NewRedisSubmissionGuard(rdb, time.Minute, nopLog)

	if _, ok, err := guard.Acquire(context.Background(), "acc-1", "paper-1"); err == nil || ok {
		t.Errorf("acquire with redis down = %v, %v; want error", ok, err)
	}
}
