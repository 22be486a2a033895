package observability

import (
	"fmt"
	"time"
)

// Config configures OTLP export of traces and metrics.
type Config struct {
	Enabled bool `mapstructure:"enabled"`

	// Endpoint is the OTLP HTTP collector host:port (default: "localhost:4318").
	Endpoint string `mapstructure:"endpoint"`

	Insecure bool `mapstructure:"insecure"`

	// SampleRate is the trace sampling ratio in [0, 1] (default: 1).
	SampleRate float64 `mapstructure:"sample_rate"`

	// MetricInterval is the metric export period (default: 15s).
	MetricInterval time.Duration `mapstructure:"metric_interval"`
}

func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("tracing sample_rate must be within [0, 1] (got: %v)", c.SampleRate)
	}
	if c.MetricInterval <= 0 {
		return fmt.Errorf("tracing metric_interval must be positive")
	}
	return nil
}
