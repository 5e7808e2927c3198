package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

// keyPrefix namespaces cart entries so the instance can share a Redis
// with other workloads.
const keyPrefix = "eshop:cart:"

const defaultTTL = 20 * time.Minute

// RedisCache stores carts as JSON under eshop:cart:<userID>. Every
// entry expires on a jittered TTL; an expired entry just means the
// next read goes to Mongo.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache builds a cart cache over an existing client. A
// non-positive baseTTL falls back to defaultTTL.
func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = defaultTTL
	}
	return &RedisCache{client: client, ttl: baseTTL}
}

func (c *RedisCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cart cache get: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cached cart: %w", err)
	}
	return &cart, nil
}

func (c *RedisCache) Set(ctx context.Context, userID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	if err := c.client.Set(ctx, cartKey(userID), data, c.expiry()).Err(); err != nil {
		return fmt.Errorf("cart cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("cart cache delete: %w", err)
	}
	return nil
}

// expiry spreads expirations over [ttl, ttl+25%) so carts cached in
// one burst do not all fall out together.
func (c *RedisCache) expiry() time.Duration {
	return c.ttl + time.Duration(rand.Int63n(int64(c.ttl/4)))
}

func cartKey(userID string) string {
	return keyPrefix + userID
}
