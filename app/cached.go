package app

import (
	"context"
	"strconv"
	"time"

	"github.com/kbukum/identity/cache"
	"github.com/kbukum/identity/logger"
)

// CachedRepository reads through and writes through a Cache. Cache failures
// never fail a request: they are logged and the repository answers.
type CachedRepository struct {
	repo  Repository
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

var _ Repository = (*CachedRepository)(nil)

func NewCachedRepository(repo Repository, c cache.Cache, ttl time.Duration, log *logger.Logger) *CachedRepository {
	return &CachedRepository{repo: repo, cache: c, ttl: ttl, log: log.WithComponent("app.cache")}
}

func idKey(id int64) string    { return "app:id:" + strconv.FormatInt(id, 10) }
func urlKey(url string) string { return "app:url:" + url }

func (r *CachedRepository) Find(ctx context.Context, id int64) (*App, error) {
	return r.readThrough(ctx, idKey(id), func() (*App, error) { return r.repo.Find(ctx, id) })
}

func (r *CachedRepository) FindByURL(ctx context.Context, url string) (*App, error) {
	return r.readThrough(ctx, urlKey(url), func() (*App, error) { return r.repo.FindByURL(ctx, url) })
}

func (r *CachedRepository) readThrough(ctx context.Context, key string, load func() (*App, error)) (*App, error) {
	var cached App
	err := r.cache.Find(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !cache.IsMiss(err) {
		r.log.WithContext(ctx).Warn("Cache read failed, using repository", map[string]interface{}{
			logger.FieldKey:   key,
			logger.FieldError: err.Error(),
		})
	}

	a, err := load()
	if err != nil {
		return nil, err
	}
	r.store(ctx, a)
	return a, nil
}

func (r *CachedRepository) Create(ctx context.Context, a *App) error {
	if err := r.repo.Create(ctx, a); err != nil {
		return err
	}
	r.store(ctx, a)
	return nil
}

func (r *CachedRepository) Delete(ctx context.Context, a *App) error {
	if err := r.repo.Delete(ctx, a); err != nil {
		return err
	}
	for _, key := range []string{idKey(a.ID), urlKey(a.URL)} {
		if err := r.cache.Delete(ctx, key); err != nil {
			r.log.WithContext(ctx).Warn("Cache invalidation failed", map[string]interface{}{
				logger.FieldKey:   key,
				logger.FieldError: err.Error(),
			})
		}
	}
	return nil
}

func (r *CachedRepository) store(ctx context.Context, a *App) {
	for _, key := range []string{idKey(a.ID), urlKey(a.URL)} {
		if err := r.cache.Save(ctx, key, a, r.ttl); err != nil {
			r.log.WithContext(ctx).Warn("Cache write failed", map[string]interface{}{
				logger.FieldKey:   key,
				logger.FieldError: err.Error(),
			})
		}
	}
}
