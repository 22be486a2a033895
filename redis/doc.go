// Package redis provides the Redis client used by the aggregate cache.
//
//	comp, err := redis.NewComponent(cfg.Redis, log)
//	registry.Register(comp)
//	c := cache.NewRedis(comp.Client(), "identity", log)
package redis
