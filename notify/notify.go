// Package notify delivers signup verification tokens out of band.
package notify

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/identity/logger"
)

// Verification is the message sent to a new user's email address.
type Verification struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier hands a verification to whatever delivers it.
type Notifier interface {
	NotifyVerification(ctx context.Context, v Verification) error
}

// LogNotifier writes verifications to the log. The token itself is not
// logged.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithComponent("notify")}
}

func (n *LogNotifier) NotifyVerification(ctx context.Context, v Verification) error {
	n.log.WithContext(ctx).Info("Verification issued", map[string]interface{}{
		logger.FieldEmail: v.Email,
		"expires_at":      v.ExpiresAt.UTC().Format(time.RFC3339),
	})
	return nil
}

// JSONSender is satisfied by *kafka.Producer.
type JSONSender interface {
	SendJSON(ctx context.Context, topic, key string, value interface{}, headers ...kafkago.Header) error
}

// KafkaNotifier publishes verifications to a topic keyed by email, so
// messages for one address stay ordered.
type KafkaNotifier struct {
	sender JSONSender
	topic  string
	log    *logger.Logger
}

func NewKafkaNotifier(sender JSONSender, topic string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{sender: sender, topic: topic, log: log.WithComponent("notify.kafka")}
}

func (n *KafkaNotifier) NotifyVerification(ctx context.Context, v Verification) error {
	var headers []kafkago.Header
	if id := logger.RequestIDFromContext(ctx); id != "" {
		headers = append(headers, kafkago.Header{Key: "x-request-id", Value: []byte(id)})
	}
	if err := n.sender.SendJSON(ctx, n.topic, v.Email, v, headers...); err != nil {
		n.log.WithContext(ctx).Error("Publishing verification failed", map[string]interface{}{
			logger.FieldEmail: v.Email,
			logger.FieldError: err.Error(),
		})
		return err
	}
	return nil
}
