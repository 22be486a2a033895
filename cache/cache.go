// Package cache is a key-value accelerator in front of the aggregate
// repositories. Values are stored as JSON with an optional expiry.
//
// A miss is reported as NOT_FOUND wrapping ErrMiss so callers can tell
// "not cached" (go to the repository) from "does not exist":
//
//	if err := c.Find(ctx, key, &v); cache.IsMiss(err) {
//	    // read the repository and repopulate
//	}
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/kbukum/identity/errors"
)

// ErrMiss is the cause of every cache-level NOT_FOUND.
var ErrMiss = errors.New("cache: miss")

// Cache stores serialized values under string keys.
type Cache interface {
	// Find decodes the value at key into dst.
	Find(ctx context.Context, key string, dst any) error
	// Save stores value at key. A zero ttl never expires.
	Save(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IsMiss reports whether err is a cache miss rather than a store failure.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}

func miss(key string) error {
	return apperrors.NotFound("cache entry", key).WithCause(ErrMiss)
}

// Backend names a Cache implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Config selects the cache backend and the default entry lifetime.
type Config struct {
	Backend Backend       `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.TTL == 0 {
		c.TTL = 10 * time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "identity"
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unsupported cache backend %q (use memory or redis)", c.Backend)
	}
	if c.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}
