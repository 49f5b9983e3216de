// Package imagecache stores generated scene images so that a repeated scene
// description does not pay for a second image generation.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tatianab/aeterna/internal/models"
)

const keyPrefix = "scene-image:"

// RedisCache keeps scene images in Redis as data URLs.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache parses redisURL (redis://host:port/db) and returns a cache
// whose entries expire after ttl. No connection is made until first use.
func NewRedisCache(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{
		client: redis.NewClient(opt),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Key derives the cache key of a scene description.
func Key(sceneDescription string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(sceneDescription)))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (c *RedisCache) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := c.Ping(ctx); err != nil {
			c.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		c.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Get returns the cached image for sceneDescription, or nil on a miss.
func (c *RedisCache) Get(ctx context.Context, sceneDescription string) (*models.SceneImage, error) {
	key := Key(sceneDescription)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.logger.Debug("Scene image cache miss", "key", key)
			return nil, nil
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	img, err := models.ParseDataURL(val)
	if err != nil {
		// Corrupt entries are dropped so the next render replaces them.
		c.logger.Warn("Discarding corrupt scene image", "key", key, "error", err)
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			c.logger.Error("Redis DEL failed", "key", key, "error", delErr)
		}
		return nil, nil
	}
	c.logger.Debug("Scene image cache hit", "key", key, "bytes", len(img.Data))
	return img, nil
}

// Put stores img under sceneDescription.
func (c *RedisCache) Put(ctx context.Context, sceneDescription string, img *models.SceneImage) error {
	if img == nil {
		return nil
	}
	key := Key(sceneDescription)
	if err := c.client.Set(ctx, key, img.DataURL(), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	c.logger.Debug("Scene image cached", "key", key, "ttl", c.ttl)
	return nil
}

func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	c.logger.Info("Redis connection closed")
	return nil
}
