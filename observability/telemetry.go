package observability

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/identity/component"
	"github.com/kbukum/identity/logger"
)

// Telemetry owns the tracer and meter providers and flushes them on Stop.
type Telemetry struct {
	tp  *sdktrace.TracerProvider
	mp  *sdkmetric.MeterProvider
	log *logger.Logger
}

var _ component.Component = (*Telemetry)(nil)

// Init sets up tracing and metrics. A disabled config returns a Telemetry
// that leaves the global no-op providers untouched.
func Init(ctx context.Context, svc Service, cfg Config, log *logger.Logger) (*Telemetry, error) {
	cfg.ApplyDefaults()
	t := &Telemetry{log: log.WithComponent("telemetry")}
	if !cfg.Enabled {
		return t, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tp, err := InitTracer(ctx, svc, cfg)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, svc, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	t.tp, t.mp = tp, mp

	t.log.Info("Telemetry initialized", map[string]interface{}{
		"endpoint":    cfg.Endpoint,
		"sample_rate": cfg.SampleRate,
		"interval":    cfg.MetricInterval.String(),
	})
	return t, nil
}

func (t *Telemetry) Name() string { return "telemetry" }

func (t *Telemetry) Start(context.Context) error { return nil }

// Stop flushes and shuts down both providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *Telemetry) Health(context.Context) component.Health {
	return component.Health{Name: t.Name(), Status: component.StatusHealthy}
}
