package session

import (
	"fmt"
	"time"
)

// Config controls session lifetimes and registry layout.
type Config struct {
	// Timeout is the lifetime of a new session (default: 24h).
	Timeout time.Duration `mapstructure:"timeout"`

	// TokenTTL is the lifetime of an app-scoped token; tokens never outlive
	// their session (default: 10m).
	TokenTTL time.Duration `mapstructure:"token_ttl"`

	// SIDLength is the length of a session id in hex characters (default: 64).
	SIDLength int `mapstructure:"sid_length"`

	// Shards is the number of independently locked sid maps (default: 32).
	Shards int `mapstructure:"shards"`

	// SweepInterval is how often the janitor evicts expired sessions
	// (default: 1m).
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 24 * time.Hour
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 10 * time.Minute
	}
	if c.SIDLength == 0 {
		c.SIDLength = 64
	}
	if c.Shards == 0 {
		c.Shards = 32
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = time.Minute
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("session timeout must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("session token_ttl must be positive")
	}
	if c.SIDLength < 16 || c.SIDLength > 128 {
		return fmt.Errorf("session sid_length must be between 16 and 128 (got: %d)", c.SIDLength)
	}
	if c.Shards < 1 {
		return fmt.Errorf("session shards must be >= 1")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("session sweep_interval must be positive")
	}
	return nil
}
