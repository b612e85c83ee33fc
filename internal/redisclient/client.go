package redisclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront-service/internal/storage"

	"github.com/go-redis/redis/v8"
)

const activityKey = "storefront:activity"

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client. Records expire ttl after their
// last write; zero keeps them forever.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewFromClient(rdb, ttl), nil
}

// NewFromClient wraps an existing connection
func NewFromClient(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{rdb: rdb, ttl: ttl}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Save stores a client state record
func (c *Client) Save(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Load returns a client state record or storage.ErrNotFound
func (c *Client) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Delete removes a client state record
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// IncrActivity bumps the counter of one event type
func (c *Client) IncrActivity(ctx context.Context, eventType string, by int64) error {
	return c.rdb.HIncrBy(ctx, activityKey, eventType, by).Err()
}

// Activity returns every activity counter
func (c *Client) Activity(ctx context.Context) (map[string]int64, error) {
	result, err := c.rdb.HGetAll(ctx, activityKey).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(result))
	for field, raw := range result {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("activity counter %s: %w", field, err)
		}
		counts[field] = n
	}
	return counts, nil
}

// MarkEventProcessed records an event id for ttl and reports whether it was
// new. Consumers use it to skip redelivered messages.
func (c *Client) MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, processedKey(eventID), "1", ttl).Result()
}

// UnmarkEventProcessed forgets an event so a redelivery is handled again
func (c *Client) UnmarkEventProcessed(ctx context.Context, eventID string) error {
	return c.rdb.Del(ctx, processedKey(eventID)).Err()
}

func processedKey(eventID string) string {
	return fmt.Sprintf("processed:%s", eventID)
}
