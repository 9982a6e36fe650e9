package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ViewCache is a generic JSON-backed Redis cache for read projections.
// Bind it to a specific type T; each instance holds a Redis client, a key
// prefix and an optional TTL (pass 0 for keys that should not expire).
type ViewCache[T any] struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewViewCache creates a ViewCache backed by the provided Redis client.
func NewViewCache[T any](client goredis.Cmdable, prefix string, ttl time.Duration, logger logrus.FieldLogger) *ViewCache[T] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

func (c *ViewCache[T]) key(id string) string { return c.prefix + id }

// Get retrieves and unmarshals a value from Redis.
// Returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.WithError(err).WithField("key", c.key(id)).Warn("view cache read failed")
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.WithError(err).WithField("key", c.key(id)).Warn("view cache entry is corrupt")
		return nil, false
	}
	return &v, true
}

// Set marshals value and stores it under id.
// Errors are logged rather than returned: a failed cache write is non-fatal.
func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", c.key(id)).Warn("view cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", c.key(id)).Warn("view cache write failed")
	}
}

// Delete removes the entry for id.
func (c *ViewCache[T]) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.WithError(err).WithField("key", c.key(id)).Warn("view cache delete failed")
	}
}
