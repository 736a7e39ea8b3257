package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/marketplace/config"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client is the cache surface used by the service layer.
type Client interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
	// Get reports found=false on a cache miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Close() error
}

type client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis, or returns a disabled client when REDIS_ENABLED is false.
func NewClient(cfg *config.Config) (Client, error) {
	if !cfg.Redis.Enabled {
		logger.GetLogger().Info("Redis disabled, offer list cache is off")
		return NewDisabledClient(), nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	c := &client{rdb: rdb}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return c, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(rdb *goredis.Client) Client {
	return &client{rdb: rdb}
}

func (c *client) IsEnabled() bool {
	return true
}

func (c *client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *client) Close() error {
	return c.rdb.Close()
}

func (c *client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache: %w", err)
	}
	return data, true, nil
}

func (c *client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	logger.GetLogger().Debug("Cache set successfully",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
		zap.Int("data_size", len(value)),
	)
	return nil
}

// DeleteByPattern removes matching keys using SCAN so Redis is never blocked.
func (c *client) DeleteByPattern(ctx context.Context, pattern string) error {
	var deleted int
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache by pattern: %w", err)
			}
			deleted += len(batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys by pattern: %w", err)
	}
	if len(batch) > 0 {
		if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache by pattern: %w", err)
		}
		deleted += len(batch)
	}

	logger.GetLogger().Debug("Cache deleted by pattern",
		zap.String("pattern", pattern),
		zap.Int("deleted_count", deleted),
	)
	return nil
}

type disabledClient struct{}

// NewDisabledClient returns a client that never caches.
func NewDisabledClient() Client {
	return disabledClient{}
}

func (disabledClient) IsEnabled() bool {
	return false
}

func (disabledClient) Ping(context.Context) error {
	return nil
}

func (disabledClient) Close() error {
	return nil
}

func (disabledClient) DeleteByPattern(context.Context, string) error {
	return nil
}

func (disabledClient) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (disabledClient) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
