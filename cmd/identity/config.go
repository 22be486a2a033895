package main

import (
	"fmt"

	"github.com/kbukum/identity/auth/password"
	"github.com/kbukum/identity/cache"
	"github.com/kbukum/identity/config"
	"github.com/kbukum/identity/database"
	"github.com/kbukum/identity/encryption"
	identitygrpc "github.com/kbukum/identity/grpc"
	"github.com/kbukum/identity/kafka"
	"github.com/kbukum/identity/observability"
	"github.com/kbukum/identity/redis"
	"github.com/kbukum/identity/server"
	"github.com/kbukum/identity/session"
	"github.com/kbukum/identity/transaction"
)

// Config is the full configuration of the identity binary.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Session  session.Config       `mapstructure:"session"`
	Keys     KeysConfig           `mapstructure:"keys"`
	Password password.Config      `mapstructure:"password"`
	Signup   transaction.Config   `mapstructure:"signup"`
	Database database.Config      `mapstructure:"database"`
	Secrets  SecretsConfig        `mapstructure:"secrets"`
	Redis    redis.Config         `mapstructure:"redis"`
	Cache    cache.Config         `mapstructure:"cache"`
	Kafka    kafka.Config         `mapstructure:"kafka"`
	GRPC     identitygrpc.Config  `mapstructure:"grpc"`
	HTTP     server.Config        `mapstructure:"http"`
	Tracing  observability.Config `mapstructure:"tracing"`

	// Apps lists application URLs registered at startup if missing.
	Apps []string `mapstructure:"apps"`
}

// KeysConfig holds the token signing key pair as base64-encoded PEM.
// Without a private key an ephemeral pair is generated, which is refused in
// production.
type KeysConfig struct {
	Private string `mapstructure:"private"`
	Public  string `mapstructure:"public"`
}

// SecretsConfig locates the bbolt secret store. With an encryption key the
// stored key material is sealed at rest.
type SecretsConfig struct {
	Path          string               `mapstructure:"path"`
	EncryptionKey string               `mapstructure:"encryption_key"`
	Algorithm     encryption.Algorithm `mapstructure:"algorithm"`
}

func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Session.ApplyDefaults()
	c.Password.ApplyDefaults()
	c.Signup.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Cache.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.GRPC.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	if c.Secrets.Path == "" {
		c.Secrets.Path = "identity-secrets.db"
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	sections := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"session", &c.Session},
		{"password", &c.Password},
		{"signup", &c.Signup},
		{"database", &c.Database},
		{"redis", &c.Redis},
		{"cache", &c.Cache},
		{"kafka", &c.Kafka},
		{"grpc", &c.GRPC},
		{"http", &c.HTTP},
		{"tracing", &c.Tracing},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("config.%s: %w", s.name, err)
		}
	}

	if c.Cache.Backend == cache.BackendRedis && !c.Redis.Enabled {
		return fmt.Errorf("config.cache: backend redis requires redis.enabled")
	}
	if c.Keys.Private == "" && c.Environment == "production" {
		return fmt.Errorf("config.keys: private key is required in production")
	}
	return nil
}
