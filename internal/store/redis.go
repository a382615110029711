package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisTimeout = 5 * time.Second
	redisPrefix  = "qianne:"
)

// RedisConfig captures the settings for a shared Redis-backed store.
type RedisConfig struct {
	Addr string
	DB   int
	// Namespace is appended to the key prefix so several users can share
	// one Redis instance. Usually the OS username.
	Namespace string
}

// Redis is a key/value store backed by Redis. It lets several terminals
// share one login.
type Redis struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to Redis and validates connectivity with a ping.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := redisPrefix
	if cfg.Namespace != "" {
		prefix += cfg.Namespace + ":"
	}
	return &Redis{client: client, prefix: prefix}, nil
}

// Close closes the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under key with no expiry; the server decides when a
// token stops being valid.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
