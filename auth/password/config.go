package password

import "fmt"

// Algorithm names a supported password hashing scheme.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// Config selects the hashing scheme for stored passwords and bounds the
// length of accepted ones. Only the parameters of the selected scheme are
// checked.
type Config struct {
	Algorithm  Algorithm `mapstructure:"algorithm"`
	BcryptCost int       `mapstructure:"bcrypt_cost"`

	Argon2Time    uint32 `mapstructure:"argon2_time"`
	Argon2Memory  uint32 `mapstructure:"argon2_memory"` // KiB
	Argon2Threads uint8  `mapstructure:"argon2_threads"`

	MinLength int `mapstructure:"min_length"`
}

func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
	if c.MinLength == 0 {
		c.MinLength = 8
	}
}

func (c *Config) Validate() error {
	if c.MinLength < 1 || c.MinLength > maxLength {
		return fmt.Errorf("password: min_length must be in [1, %d], got %d", maxLength, c.MinLength)
	}
	switch c.Algorithm {
	case AlgorithmBcrypt:
		if c.BcryptCost < 4 || c.BcryptCost > 31 {
			return fmt.Errorf("password: bcrypt_cost must be in [4, 31], got %d", c.BcryptCost)
		}
	case AlgorithmArgon2id:
		if c.Argon2Memory < 8*uint32(c.Argon2Threads) {
			return fmt.Errorf("password: argon2_memory must be at least 8 KiB per thread")
		}
	default:
		return fmt.Errorf("password: unsupported algorithm %q", c.Algorithm)
	}
	return nil
}

// NewHasher builds the Hasher selected by cfg.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	switch cfg.Algorithm {
	case AlgorithmArgon2id:
		return NewArgon2Hasher(
			WithArgon2Time(cfg.Argon2Time),
			WithArgon2Memory(cfg.Argon2Memory),
			WithArgon2Threads(cfg.Argon2Threads),
			WithArgon2MinLength(cfg.MinLength),
		)
	default:
		return NewBcryptHasher(WithCost(cfg.BcryptCost), WithMinLength(cfg.MinLength))
	}
}
