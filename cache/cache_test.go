package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	apperrors "github.com/kbukum/identity/errors"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/redis"
)

type item struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

func newRedisCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client, err := redis.New(redis.Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatalf("redis.New: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "test", logger.Nop()), mini
}

func TestCaches(t *testing.T) {
	rc, _ := newRedisCache(t)
	caches := map[string]Cache{
		"memory": NewMemory(),
		"redis":  rc,
	}

	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var got item
			err := c.Find(ctx, "app:1", &got)
			if !IsMiss(err) || !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
				t.Fatalf("expected a NOT_FOUND miss, got %v", err)
			}

			want := item{ID: 1, URL: "https://app.example.com"}
			if err := c.Save(ctx, "app:1", want, time.Minute); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := c.Find(ctx, "app:1", &got); err != nil {
				t.Fatalf("Find: %v", err)
			}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}

			if err := c.Delete(ctx, "app:1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := c.Find(ctx, "app:1", &got); !IsMiss(err) {
				t.Errorf("expected miss after delete, got %v", err)
			}
		})
	}
}

func TestRedis_TTLAndPrefix(t *testing.T) {
	c, mini := newRedisCache(t)
	ctx := context.Background()

	if err := c.Save(ctx, "k", item{ID: 2}, 30*time.Second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mini.Exists("test:k") {
		t.Fatal("expected prefixed key in redis")
	}
	mini.FastForward(31 * time.Second)

	var got item
	if err := c.Find(ctx, "k", &got); !IsMiss(err) {
		t.Errorf("expected miss after expiry, got %v", err)
	}
}

func TestRedis_ServerDown(t *testing.T) {
	c, mini := newRedisCache(t)
	mini.Close()

	var got item
	err := c.Find(context.Background(), "k", &got)
	if !apperrors.IsCode(err, apperrors.ErrCodeUnknown) || IsMiss(err) {
		t.Errorf("expected UNKNOWN that is not a miss, got %v", err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Save(ctx, "short", item{ID: 1}, time.Second)
	_ = m.Save(ctx, "forever", item{ID: 2}, 0)

	now = now.Add(2 * time.Second)
	var got item
	if err := m.Find(ctx, "short", &got); !IsMiss(err) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
	if err := m.Find(ctx, "forever", &got); err != nil || got.ID != 2 {
		t.Errorf("zero ttl entry should not expire: %+v %v", got, err)
	}
	if m.Len() != 1 {
		t.Errorf("expected expired entry to be dropped, len=%d", m.Len())
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Backend != BackendMemory || cfg.TTL != 10*time.Minute {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	cfg.Backend = "memcached"
	if cfg.Validate() == nil {
		t.Error("expected error for unknown backend")
	}
}
