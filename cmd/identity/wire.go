package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/identity/app"
	"github.com/kbukum/identity/auth/password"
	"github.com/kbukum/identity/bootstrap"
	"github.com/kbukum/identity/cache"
	"github.com/kbukum/identity/database"
	"github.com/kbukum/identity/encryption"
	apperrors "github.com/kbukum/identity/errors"
	identitygrpc "github.com/kbukum/identity/grpc"
	"github.com/kbukum/identity/kafka"
	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/metadata"
	"github.com/kbukum/identity/notify"
	"github.com/kbukum/identity/observability"
	"github.com/kbukum/identity/redis"
	"github.com/kbukum/identity/secret"
	"github.com/kbukum/identity/server"
	"github.com/kbukum/identity/server/endpoint"
	"github.com/kbukum/identity/session"
	"github.com/kbukum/identity/token"
	"github.com/kbukum/identity/transaction"
	"github.com/kbukum/identity/user"
	"github.com/kbukum/identity/version"
)

// wire builds every component from the config and registers them in
// dependency order.
func wire(ctx context.Context, a *bootstrap.App[*Config]) error {
	cfg, log := a.Cfg, a.Logger

	telemetry, err := observability.Init(ctx, observability.Service{
		Name:        cfg.Name,
		Version:     version.Short(),
		Environment: cfg.Environment,
	}, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := a.RegisterComponent(telemetry); err != nil {
		return err
	}

	keys, err := loadKeys(cfg.Keys, log)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	dbComp := database.NewComponent(db, cfg.Database).WithModels(&metadata.Row{}, &user.Row{}, &app.Row{})
	if err := a.RegisterComponent(dbComp); err != nil {
		return err
	}
	metas := metadata.NewGormRepository(db, log)
	users := user.NewGormRepository(db, log)

	var boltOpts []secret.BoltOption
	if cfg.Secrets.EncryptionKey != "" {
		c, err := encryption.New(cfg.Secrets.EncryptionKey, cfg.Secrets.Algorithm)
		if err != nil {
			return err
		}
		boltOpts = append(boltOpts, secret.WithCipher(c))
	}
	bolt, err := secret.OpenBolt(cfg.Secrets.Path, log, boltOpts...)
	if err != nil {
		return err
	}
	if err := a.RegisterComponent(secret.NewComponent(bolt)); err != nil {
		return err
	}
	secrets := secret.NewManager(bolt, metas, log)

	appCache, err := buildCache(a, cfg, log)
	if err != nil {
		return err
	}
	apps := app.NewCachedRepository(app.NewGormRepository(db, log), appCache, cfg.Cache.TTL, log)

	notifier, err := buildNotifier(a, cfg, log)
	if err != nil {
		return err
	}

	registry := session.NewRegistry(cfg.Session, log)
	if err := a.RegisterComponent(session.NewJanitor(registry, cfg.Session.SweepInterval, log)); err != nil {
		return err
	}

	metrics, err := observability.NewMetrics(observability.Meter(), registry.Len)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	svc := transaction.NewService(transaction.Deps{
		Sessions: registry,
		Users:    users,
		Apps:     apps,
		Secrets:  secrets,
		Hasher:   password.NewHasher(cfg.Password),
		Keys:     keys,
		Notifier: notifier,
		Metrics:  metrics,
		Session:  cfg.Session,
		Signup:   cfg.Signup,
	}, log)

	grpcServer, err := identitygrpc.NewServer(cfg.GRPC, svc, log)
	if err != nil {
		return err
	}
	if err := a.RegisterComponent(grpcServer); err != nil {
		return err
	}

	if cfg.HTTP.Enabled {
		ops := server.New(cfg.HTTP, log)
		ops.ApplyDefaults(cfg.Name, a.Components.HealthAll, endpoint.Gauges{"sessions_active": registry.Len})
		if err := a.RegisterComponent(server.NewComponent(ops)); err != nil {
			return err
		}
	}

	a.OnStart(seedApps(apps, cfg.Apps, log))
	return nil
}

func loadKeys(cfg KeysConfig, log *logger.Logger) (*token.KeyPair, error) {
	if cfg.Private != "" {
		keys, err := token.KeyPairFromPEM(cfg.Private, cfg.Public)
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		return keys, nil
	}
	log.Warn("No signing key configured, generating an ephemeral key pair")
	return token.GenerateKeyPair()
}

func buildCache(a *bootstrap.App[*Config], cfg *Config, log *logger.Logger) (cache.Cache, error) {
	if cfg.Cache.Backend != cache.BackendRedis {
		return cache.NewMemory(), nil
	}
	rc, err := redis.NewComponent(cfg.Redis, log)
	if err != nil {
		return nil, err
	}
	if err := a.RegisterComponent(rc); err != nil {
		return nil, err
	}
	return cache.NewRedis(rc.Client(), cfg.Cache.Prefix, log), nil
}

func buildNotifier(a *bootstrap.App[*Config], cfg *Config, log *logger.Logger) (notify.Notifier, error) {
	if !cfg.Kafka.Enabled {
		return notify.NewLogNotifier(log), nil
	}
	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return nil, err
	}
	if err := a.RegisterComponent(kafka.NewComponent(cfg.Kafka, producer)); err != nil {
		return nil, err
	}
	return notify.NewKafkaNotifier(producer, cfg.Kafka.Topic, log), nil
}

// seedApps registers the configured application URLs that are not yet
// known.
func seedApps(apps app.Repository, urls []string, log *logger.Logger) bootstrap.Hook {
	return func(ctx context.Context) error {
		for _, url := range urls {
			_, err := apps.FindByURL(ctx, url)
			if err == nil {
				continue
			}
			if !apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
				return err
			}

			entry, err := app.New(url, time.Now())
			if err != nil {
				return fmt.Errorf("app %q: %w", url, err)
			}
			if err := apps.Create(ctx, entry); err != nil && !apperrors.IsCode(err, apperrors.ErrCodeAlreadyExists) {
				return err
			}
			log.Info("App registered", map[string]interface{}{logger.FieldApp: url})
		}
		return nil
	}
}
