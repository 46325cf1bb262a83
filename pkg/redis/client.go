package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps the Redis client for best-effort reconcile notifications.
// Downstream consumers subscribe to the collector channels to learn which
// records changed without polling the store.
type Client struct {
	client *redis.Client
	logger *zap.Logger
}

// Opts is the connection configuration for a notification client.
type Opts struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects and verifies the connection with a bounded ping.
func NewClient(ctx context.Context, o Opts, logger *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", o.Addr, err)
	}

	logger.Info("Connected to Redis", zap.String("addr", o.Addr), zap.Int("db", o.DB))

	return &Client{client: rdb, logger: logger}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Publish publishes a message to a Pub/Sub channel. This is a best-effort
// operation - errors are logged but not returned so a notification failure
// never affects the reconcile path.
func (c *Client) Publish(ctx context.Context, channel string, message interface{}) {
	if err := c.client.Publish(ctx, channel, message).Err(); err != nil {
		c.logger.Warn("Failed to publish Redis message",
			zap.String("channel", channel),
			zap.Error(err))
	}
}

// Health checks if Redis is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
