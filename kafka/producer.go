package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/resilience"
)

// MessageWriter is the part of kafkago.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer writes JSON messages, retrying transient broker errors.
type Producer struct {
	writer  MessageWriter
	retries int
	backoff time.Duration
	log     *logger.Logger

	mu     sync.RWMutex
	closed bool
}

// NewProducer builds a producer backed by a kafka-go Writer.
func NewProducer(cfg Config, log *logger.Logger) (*Producer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka producer config: %w", err)
	}
	transport, err := newTransport(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer transport: %w", err)
	}

	log = log.WithComponent("kafka.producer")
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Transport:    transport,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: parseDuration(cfg.BatchTimeout),
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:  compression(cfg.Compression),
		WriteTimeout: parseDuration(cfg.WriteTimeout),
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error("writer: "+fmt.Sprintf(msg, args...))
		}),
	}

	log.Info("Kafka producer initialized", map[string]interface{}{
		"brokers":     cfg.Brokers,
		"compression": cfg.Compression,
	})
	return NewProducerWithWriter(w, cfg.Retries, log), nil
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w MessageWriter, retries int, log *logger.Logger) *Producer {
	if retries <= 0 {
		retries = 1
	}
	return &Producer{writer: w, retries: retries, backoff: 100 * time.Millisecond, log: log}
}

// WriteMessages sends msgs, retrying transient failures with exponential
// backoff.
func (p *Producer) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return fmt.Errorf("producer is closed")
	}

	err := resilience.Do(ctx, resilience.RetryConfig{
		MaxAttempts:    p.retries,
		InitialBackoff: p.backoff,
		MaxBackoff:     5 * time.Second,
		Jitter:         0.1,
		RetryIf:        IsRetryable,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			p.log.WithContext(ctx).Warn("Kafka write failed, retrying", map[string]interface{}{
				"attempt":         attempt,
				"backoff":         backoff.String(),
				logger.FieldError: err.Error(),
			})
		},
	}, func(ctx context.Context) error {
		return p.writer.WriteMessages(ctx, msgs...)
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// SendJSON marshals value and writes it to topic under key. Extra headers
// are appended after the content type.
func (p *Producer) SendJSON(ctx context.Context, topic, key string, value interface{}, headers ...kafkago.Header) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	msg := kafkago.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Headers: append([]kafkago.Header{{Key: "content-type", Value: []byte("application/json")}}, headers...),
	}
	return p.WriteMessages(ctx, msg)
}

// Close flushes and closes the writer. Safe to call more than once.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.log.Info("Kafka producer closing")
	return p.writer.Close()
}
