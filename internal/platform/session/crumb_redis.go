package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares one crumb between service instances through Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore. If prefix is empty, it uses "session".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// crumbKey returns the Redis key of the crumb.
func (r *RedisStore) crumbKey() string {
	return fmt.Sprintf("%s:crumb", r.prefix)
}

// Load retrieves the crumb. Redis expires the key at Crumb.ExpiresAt.
func (r *RedisStore) Load(ctx context.Context) (*Crumb, error) {
	data, err := r.client.Get(ctx, r.crumbKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var c Crumb
	if err := json.Unmarshal(data, &c); err != nil {
		// Delete corrupted entry so the next caller performs a fresh handshake
		_ = r.client.Del(ctx, r.crumbKey()).Err()
		return nil, fmt.Errorf("failed to unmarshal crumb: %w", err)
	}
	if !c.IsValid(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &c, nil
}

// Save persists the crumb with a TTL ending at its expiry.
func (r *RedisStore) Save(ctx context.Context, c *Crumb) error {
	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 || c.Value == "" {
		return fmt.Errorf("session already expired")
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal crumb: %w", err)
	}
	return r.client.Set(ctx, r.crumbKey(), data, ttl).Err()
}

// Invalidate removes the crumb.
func (r *RedisStore) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, r.crumbKey()).Err()
}
