// Package cache is a best-effort key-value layer in front of the store.
// Every operation fails open: an unreachable or misbehaving Redis is treated
// as a miss or a no-op and only ever logged, never surfaced to the caller.
package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultTTL bounds how stale a cached point read may be.
const DefaultTTL = 300 * time.Second

// opTimeout keeps a dead Redis from blocking request handling.
const opTimeout = 2 * time.Second

type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", addr)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Warn(errors.Wrapf(err, "cache get %q", key))
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logrus.Warn(errors.Wrapf(err, "cache set %q", key))
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		logrus.Warn(errors.Wrapf(err, "cache delete %q", key))
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Configured() bool {
	return true
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Nop stands in when no Redis address is configured. Reads always miss.
type Nop struct{}

func (Nop) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (Nop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}

func (Nop) Delete(ctx context.Context, key string) {}

func (Nop) Ping(ctx context.Context) error { return nil }

func (Nop) Configured() bool { return false }
