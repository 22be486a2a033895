package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/identity/logger"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestMetrics_RecordTransaction(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	live := 3
	m, err := NewMetrics(mp.Meter("test"), func() int { return live })
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordTransaction(ctx, "login", "ok", 10*time.Millisecond)
	m.RecordTransaction(ctx, "login", "UNAUTHENTICATED", 5*time.Millisecond)
	m.RecordTransaction(ctx, "signup", "ok", 20*time.Millisecond)

	data := collect(t, reader)

	logins, ok := data["identity.login.total"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("missing identity.login.total, got %v", data)
	}
	var total int64
	for _, dp := range logins.DataPoints {
		total += dp.Value
	}
	if total != 2 || len(logins.DataPoints) != 2 {
		t.Errorf("expected 2 logins over 2 statuses, got %d over %d", total, len(logins.DataPoints))
	}

	if _, ok := data["identity.signup.total"]; !ok {
		t.Error("missing identity.signup.total")
	}
	if h, ok := data["identity.transaction.duration"].(metricdata.Histogram[float64]); !ok || len(h.DataPoints) != 3 {
		t.Errorf("expected 3 duration series, got %#v", data["identity.transaction.duration"])
	}

	gauge, ok := data["identity.session.active"].(metricdata.Gauge[int64])
	if !ok || len(gauge.DataPoints) != 1 || gauge.DataPoints[0].Value != 3 {
		t.Errorf("expected session gauge of 3, got %#v", data["identity.session.active"])
	}
}

func TestStartSpan_EndSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	_, span := StartSpan(context.Background(), "identity.login")
	EndSpan(span, errors.New("boom"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "identity.login" || len(spans[0].Events) == 0 {
		t.Errorf("expected the error to be recorded on the span, got %+v", spans[0])
	}
}

func TestInit_Disabled(t *testing.T) {
	tel, err := Init(context.Background(), Service{Name: "identity"}, Config{}, logger.Nop())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := tel.Stop(context.Background()); err != nil {
		t.Errorf("Stop on disabled telemetry: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Enabled: true, SampleRate: 2}
	cfg.ApplyDefaults()
	if cfg.Validate() == nil {
		t.Error("expected error for sample rate above 1")
	}
	cfg.SampleRate = 0.5
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
