package kafka

import (
	"crypto/tls"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// newTransport builds the producer transport with optional TLS/SASL.
func newTransport(cfg *Config) (*kafkago.Transport, error) {
	transport := &kafkago.Transport{
		DialTimeout: parseDuration(cfg.DialTimeout),
		IdleTimeout: parseDuration(cfg.IdleTimeout),
	}
	tc, mechanism, err := transportSecurity(cfg)
	if err != nil {
		return nil, err
	}
	transport.TLS = tc
	transport.SASL = mechanism
	return transport, nil
}

// newDialer builds the dialer used for broker health probes.
func newDialer(cfg *Config) (*kafkago.Dialer, error) {
	tc, mechanism, err := transportSecurity(cfg)
	if err != nil {
		return nil, err
	}
	return &kafkago.Dialer{
		Timeout:       parseDuration(cfg.DialTimeout),
		DualStack:     true,
		TLS:           tc,
		SASLMechanism: mechanism,
	}, nil
}

func transportSecurity(cfg *Config) (*tls.Config, sasl.Mechanism, error) {
	var (
		tc        *tls.Config
		mechanism sasl.Mechanism
		err       error
	)
	if cfg.EnableTLS {
		if tc, err = cfg.TLS.ClientConfig(); err != nil {
			return nil, nil, fmt.Errorf("TLS config: %w", err)
		}
	}
	if cfg.EnableSASL {
		if mechanism, err = buildSASLMechanism(cfg); err != nil {
			return nil, nil, fmt.Errorf("SASL config: %w", err)
		}
	}
	return tc, mechanism, nil
}

func buildSASLMechanism(cfg *Config) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

func compression(name string) kafkago.Compression {
	switch name {
	case "gzip":
		return kafkago.Gzip
	case "lz4":
		return kafkago.Lz4
	case "zstd":
		return kafkago.Zstd
	case "none":
		return 0
	default:
		return kafkago.Snappy
	}
}
