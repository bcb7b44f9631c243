package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client is a Redis-backed key-value store. Keys are namespaced with a prefix
// so several deployments can share one database.
type Client struct {
	client *redis.Client
	prefix string
}

// New creates a new Redis client.
func New(addr, password string, db int, prefix string) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts), prefix: prefix}
}

// NewFromClient wraps an existing redis client.
func NewFromClient(client *redis.Client, prefix string) *Client {
	return &Client{client: client, prefix: prefix}
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Read returns the value stored under key; ok is false on a miss.
func (c *Client) Read(ctx context.Context, key string) (string, bool, error) {
	res, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return res, true, nil
}

// Write stores value without expiry.
func (c *Client) Write(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, c.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes a key. Missing keys are not an error.
func (c *Client) Remove(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}
