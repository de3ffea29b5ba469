// Package cache is a best-effort Redis cache. Every failure behaves like a
// miss so the service keeps working when Redis is down.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client and swallows connectivity errors.
type Client struct {
	client *redis.Client
	logger *slog.Logger
}

// New wraps an existing Redis client. A nil client disables caching.
func New(client *redis.Client, logger *slog.Logger) *Client {
	return &Client{client: client, logger: logger}
}

// UserKey is the cache key of the "me" payload of a user.
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// GetJSON decodes the cached value into dst and reports whether there was a hit.
func (c *Client) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.warn(ctx, "cache get failed", key, err)
		}
		return false
	}
	if err := json.Unmarshal(res, dst); err != nil {
		c.warn(ctx, "cache entry is not valid json", key, err)
		return false
	}
	return true
}

// SetJSON stores value with TTL, ignoring redis errors.
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.warn(ctx, "cache encode failed", key, err)
		return
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.warn(ctx, "cache set failed", key, err)
	}
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.warn(ctx, "cache delete failed", key, err)
	}
}

func (c *Client) warn(ctx context.Context, msg, key string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "key", key, "error", err)
	}
}
