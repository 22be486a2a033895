package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return NewWithWriter(&Config{Level: level, Format: "json"}, "identity", buf), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	return m
}

func TestInit(t *testing.T) {
	l := Init(Config{}, "test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestInfoWithFields(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.Info("session created", Fields(FieldSessionID, SessionRef("abc"), FieldPrincipal, "alice@example.com"))

	m := decodeLine(t, buf)
	if m["message"] != "session created" {
		t.Errorf("unexpected message: %v", m["message"])
	}
	if m[FieldSessionID] != "abc" {
		t.Errorf("expected session_id=abc, got %v", m[FieldSessionID])
	}
	if m["service"] != "identity" {
		t.Errorf("expected service=identity, got %v", m["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
	l.Warn("shown")
	if buf.Len() == 0 {
		t.Error("expected warn to be written")
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithComponent("registry").Info("hello")

	m := decodeLine(t, buf)
	if m[FieldComponent] != "registry" {
		t.Errorf("expected component=registry, got %v", m[FieldComponent])
	}
}

func TestWithContext_RequestID(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("handled")

	m := decodeLine(t, buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id=req-1, got %v", m[FieldRequestID])
	}
}

func TestWithContext_Span(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	l.WithContext(trace.ContextWithSpanContext(context.Background(), sc)).Info("traced")

	m := decodeLine(t, buf)
	if m[FieldTraceID] != sc.TraceID().String() || m[FieldSpanID] != sc.SpanID().String() {
		t.Errorf("expected trace and span ids, got %v", m)
	}
	if _, ok := m[FieldRequestID]; ok {
		t.Error("no request id expected")
	}
}

func TestSessionRef(t *testing.T) {
	if got := SessionRef("0123456789abcdef"); got != "01234567..." {
		t.Errorf("SessionRef = %q", got)
	}
	if got := SessionRef("short"); got != "short" {
		t.Errorf("SessionRef = %q", got)
	}
}

func TestWithContext_NoRequestID(t *testing.T) {
	l, _ := newJSONLogger(t, "info")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected same logger when context has no request id")
	}
}

func TestWithError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithError(errors.New("boom")).Error("failed")

	m := decodeLine(t, buf)
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestFields_OddCount(t *testing.T) {
	m := Fields("a", 1, "dangling")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid level to fail")
	}
}
