package transaction

import (
	"fmt"
	"time"
)

// Config holds signup settings.
type Config struct {
	// VerificationTTL is how long a signup verification token is valid
	// (default: 24h).
	VerificationTTL time.Duration `mapstructure:"verification_ttl"`
}

func (c *Config) ApplyDefaults() {
	if c.VerificationTTL == 0 {
		c.VerificationTTL = 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	if c.VerificationTTL <= 0 {
		return fmt.Errorf("signup verification_ttl must be positive")
	}
	return nil
}
