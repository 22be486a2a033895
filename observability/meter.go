package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter installs a global meter provider exporting to cfg.Endpoint.
func InitMeter(ctx context.Context, svc Service, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(newResource(svc)),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the service meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the identity service instruments.
type Metrics struct {
	loginTotal  metric.Int64Counter
	logoutTotal metric.Int64Counter
	signupTotal metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewMetrics creates the instruments on meter. When sessions is not nil it
// backs the identity.session.active gauge.
func NewMetrics(meter metric.Meter, sessions func() int) (*Metrics, error) {
	loginTotal, err := meter.Int64Counter("identity.login.total",
		metric.WithDescription("Login transactions by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating identity.login.total counter: %w", err)
	}
	logoutTotal, err := meter.Int64Counter("identity.logout.total",
		metric.WithDescription("Logout transactions by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating identity.logout.total counter: %w", err)
	}
	signupTotal, err := meter.Int64Counter("identity.signup.total",
		metric.WithDescription("Signup transactions by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating identity.signup.total counter: %w", err)
	}
	duration, err := meter.Float64Histogram("identity.transaction.duration",
		metric.WithDescription("Duration of transactions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating identity.transaction.duration histogram: %w", err)
	}

	if sessions != nil {
		_, err = meter.Int64ObservableGauge("identity.session.active",
			metric.WithDescription("Sessions currently held by the registry"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(int64(sessions()))
				return nil
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("creating identity.session.active gauge: %w", err)
		}
	}

	return &Metrics{
		loginTotal:  loginTotal,
		logoutTotal: logoutTotal,
		signupTotal: signupTotal,
		duration:    duration,
	}, nil
}

// RecordTransaction counts one finished transaction and its duration.
// status is "ok" or the error code the transaction failed with.
func (m *Metrics) RecordTransaction(ctx context.Context, op, status string, d time.Duration) {
	statusAttr := attribute.String("status", status)
	switch op {
	case "login":
		m.loginTotal.Add(ctx, 1, metric.WithAttributes(statusAttr))
	case "logout":
		m.logoutTotal.Add(ctx, 1, metric.WithAttributes(statusAttr))
	case "signup":
		m.signupTotal.Add(ctx, 1, metric.WithAttributes(statusAttr))
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("operation", op),
		statusAttr,
	))
}
