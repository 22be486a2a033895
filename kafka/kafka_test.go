package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/identity/logger"
	"github.com/kbukum/identity/security"
	"github.com/kbukum/identity/security/tlstest"
)

type fakeWriter struct {
	fails  []error
	calls  int
	msgs   []kafkago.Message
	closed int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.calls++
	if len(w.fails) > 0 {
		err := w.fails[0]
		w.fails = w.fails[1:]
		return err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed++
	return nil
}

func newTestProducer(w *fakeWriter, retries int) *Producer {
	p := NewProducerWithWriter(w, retries, logger.Nop())
	p.backoff = time.Millisecond
	return p
}

func TestProducer_RetriesTransientErrors(t *testing.T) {
	w := &fakeWriter{fails: []error{errors.New("dial tcp: connection refused")}}
	p := newTestProducer(w, 3)

	if err := p.SendJSON(context.Background(), "t", "k", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("SendJSON: %v", err)
	}
	if w.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", w.calls)
	}
	msg := w.msgs[0]
	if msg.Topic != "t" || string(msg.Key) != "k" {
		t.Errorf("unexpected message %+v", msg)
	}
	var body map[string]string
	if err := json.Unmarshal(msg.Value, &body); err != nil || body["a"] != "b" {
		t.Errorf("unexpected body %q", msg.Value)
	}
}

func TestProducer_NonRetryableStopsEarly(t *testing.T) {
	w := &fakeWriter{fails: []error{errors.New("unknown topic or partition")}}
	p := newTestProducer(w, 3)

	if err := p.WriteMessages(context.Background(), kafkago.Message{}); err == nil {
		t.Fatal("expected error")
	}
	if w.calls != 1 {
		t.Errorf("expected a single attempt, got %d", w.calls)
	}
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	p := newTestProducer(w, 1)
	_ = p.Close()
	_ = p.Close()
	if w.closed != 1 {
		t.Errorf("expected writer closed once, got %d", w.closed)
	}
	if err := p.WriteMessages(context.Background(), kafkago.Message{}); err == nil {
		t.Error("expected error writing to closed producer")
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{Enabled: true}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Topic != "identity.verification" || cfg.Retries != 3 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	cfg.EnableSASL = true
	cfg.SASLMechanism = "GSSAPI"
	if cfg.Validate() == nil {
		t.Error("expected error for unsupported SASL mechanism")
	}
}

func TestTransport_TLS(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	cfg := &Config{
		Enabled:   true,
		EnableTLS: true,
		TLS:       security.TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	tr, err := newTransport(cfg)
	if err != nil {
		t.Fatalf("newTransport: %v", err)
	}
	if tr.TLS == nil || tr.TLS.RootCAs == nil || len(tr.TLS.Certificates) != 1 {
		t.Fatalf("expected CA pool and client certificate, got %+v", tr.TLS)
	}

	cfg.TLS = security.TLSConfig{CertFile: certs.CertFile}
	if cfg.Validate() == nil {
		t.Error("expected error for cert without key")
	}

	cfg.EnableTLS = false
	if tr, err := newTransport(cfg); err != nil || tr.TLS != nil {
		t.Errorf("expected plaintext transport, got %v %v", tr, err)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
	if !IsRetryable(errors.New("Leader Not Available")) {
		t.Error("expected leader errors to be retryable")
	}
	if IsRetryable(errors.New("message too large")) {
		t.Error("message size errors are not retryable")
	}
}
