package cache

import (
	"context"
	"encoding/json"
	"time"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/redis"
)

// Redis stores entries in Redis under "<prefix>:<key>".
type Redis struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

var _ Cache = (*Redis)(nil)

func NewRedis(client *redis.Client, prefix string, log *logger.Logger) *Redis {
	return &Redis{client: client, prefix: prefix, log: log.WithComponent("cache.redis")}
}

func (r *Redis) fullKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *Redis) Find(ctx context.Context, key string, dst any) error {
	raw, err := r.client.Get(ctx, r.fullKey(key))
	if redis.IsNil(err) {
		return miss(key)
	}
	if err != nil {
		return r.fail(ctx, "find", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return r.fail(ctx, "decode", key, err)
	}
	return nil
}

func (r *Redis) Save(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return r.fail(ctx, "encode", key, err)
	}
	if err := r.client.Set(ctx, r.fullKey(key), raw, ttl); err != nil {
		return r.fail(ctx, "save", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.fullKey(key)); err != nil {
		return r.fail(ctx, "delete", key, err)
	}
	return nil
}

func (r *Redis) fail(ctx context.Context, op, key string, err error) error {
	r.log.WithContext(ctx).Error("Cache operation failed", map[string]interface{}{
		logger.FieldOperation: op,
		logger.FieldKey:       key,
		logger.FieldError:     err.Error(),
	})
	return apperrors.Unknown(err)
}
