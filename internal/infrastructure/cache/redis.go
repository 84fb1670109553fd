package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"clarity/internal/config"
)

// Redis is a best-effort cache and advisory-lock provider. When the
// server is unreachable every operation degrades to a no-op miss so a
// request never fails because the cache is down.
type Redis struct {
	client *redis.Client
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Password),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] Redis unavailable, bypassing cache: %v", err)
		}
		_ = client.Close()
		return &Redis{client: nil, logger: logger}
	}

	return &Redis{client: client, logger: logger}
}

func (r *Redis) isUnavailable() bool {
	return r == nil || r.client == nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] Redis unavailable, bypassing cache: %v", err)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.isUnavailable() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r.isUnavailable() {
		return nil
	}
	return r.client.Close()
}

// AcquireLock takes a short-lived advisory lock via SETNX. When Redis
// is down it reports acquired: the lock only narrows a race the store's
// unique index already resolves.
func (r *Redis) AcquireLock(ctx context.Context, key string, ttl time.Duration) bool {
	if r.isUnavailable() {
		return true
	}
	ok, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return true
	}
	return ok
}

func (r *Redis) ReleaseLock(ctx context.Context, key string) {
	if r.isUnavailable() {
		return
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

func (r *Redis) GetJSON(ctx context.Context, key string, dest any) bool {
	if r.isUnavailable() {
		return false
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.warnUnavailableOnce(err)
		}
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false
	}
	return true
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if r.isUnavailable() {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if r.isUnavailable() || len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}
