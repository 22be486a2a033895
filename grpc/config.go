package grpc

import (
	"fmt"
	"time"

	"github.com/kbukum/identity/security"
)

// KeepaliveConfig holds keepalive settings for gRPC connections.
type KeepaliveConfig struct {
	// Time is the interval between keepalive pings.
	Time time.Duration `mapstructure:"time"`
	// Timeout is the time to wait for a keepalive ping ack before closing.
	Timeout time.Duration `mapstructure:"timeout"`
}

// TLSConfig switches transport security on. The listener uses CertFile and
// KeyFile, requiring client certificates when CAFile is set; clients verify
// the server against CAFile.
type TLSConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	security.TLSConfig `mapstructure:",squash"`
}

// Config holds the gRPC listener and client settings.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// MaxRecvMsgSize is the maximum message size accepted (bytes).
	MaxRecvMsgSize int `mapstructure:"max_recv_msg_size"`
	// MaxSendMsgSize is the maximum message size sent (bytes).
	MaxSendMsgSize int             `mapstructure:"max_send_msg_size"`
	Keepalive      KeepaliveConfig `mapstructure:"keepalive"`
	TLS            TLSConfig       `mapstructure:"tls"`
	// Timeout bounds the handling of a single request on the server and
	// is the default deadline of client calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// ShutdownTimeout is how long Stop waits for in-flight calls.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 50051
	defaultMaxMsgSize       = 1 << 20 // 1 MB
	defaultKeepaliveTime    = 30 * time.Second
	defaultKeepaliveTimeout = 10 * time.Second
	defaultTimeout          = 10 * time.Second
	defaultShutdownTimeout  = 5 * time.Second
)

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.MaxRecvMsgSize == 0 {
		c.MaxRecvMsgSize = defaultMaxMsgSize
	}
	if c.MaxSendMsgSize == 0 {
		c.MaxSendMsgSize = defaultMaxMsgSize
	}
	if c.Keepalive.Time == 0 {
		c.Keepalive.Time = defaultKeepaliveTime
	}
	if c.Keepalive.Timeout == 0 {
		c.Keepalive.Timeout = defaultKeepaliveTimeout
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("grpc: host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("grpc: port must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxRecvMsgSize <= 0 || c.MaxSendMsgSize <= 0 {
		return fmt.Errorf("grpc: message size limits must be positive")
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return fmt.Errorf("grpc: tls cert_file and key_file are required when TLS is enabled")
	}
	return nil
}

// Address returns the host:port listen or dial target.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
