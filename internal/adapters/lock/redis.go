// Package lock provides a Redis-backed lock shared between service instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces lock keys in a shared Redis.
const keyPrefix = "orders-sync:lock:"

// NewRedisClient connects to Redis at addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisLocker implements gateways.JobLocker with redislock.
type RedisLocker struct {
	client *redislock.Client
}

var _ gateways.JobLocker = (*RedisLocker)(nil)

func NewRedisLocker(rdb redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

// Obtain tries the key once, without retrying.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (gateways.JobLock, error) {
	lock, err := l.client.Obtain(ctx, keyPrefix+key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("%w: lock %s is held", apperrors.ErrJobAlreadyRunning, key)
		}
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return &redisLock{lock: lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

// Release frees the key. An already expired lock is not an error.
func (l *redisLock) Release(ctx context.Context) error {
	if err := l.lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return fmt.Errorf("failed to release lock %s: %w", l.lock.Key(), err)
	}
	return nil
}
