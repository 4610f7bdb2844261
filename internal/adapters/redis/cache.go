package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) GetInsight(ctx context.Context, city string) (string, bool, error) {
	val, err := c.client.Get(ctx, "insight:"+city).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *Cache) SetInsight(ctx context.Context, city, text string, ttl time.Duration) error {
	return c.client.Set(ctx, "insight:"+city, text, ttl).Err()
}
