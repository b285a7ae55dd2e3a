package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "claudebar"
	serviceVersion = "1.0.0"
)

// Config holds the self-metrics exporter configuration.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// Exporter publishes claudebar's own refresh-pass metrics to an OTEL
// collector, so the aggregation engine can be watched with the same tooling
// it consumes.
type Exporter struct {
	provider     *sdkmetric.MeterProvider
	passesTotal  metric.Int64Counter
	passDuration metric.Float64Histogram
}

// NewExporter creates a self-metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	passesTotal, err := meter.Int64Counter(
		"claudebar_refresh_passes_total",
		metric.WithDescription("Completed aggregation refresh passes"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating passes counter: %w", err)
	}

	passDuration, err := meter.Float64Histogram(
		"claudebar_refresh_duration_seconds",
		metric.WithDescription("Duration of aggregation refresh passes"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Exporter{
		provider:     provider,
		passesTotal:  passesTotal,
		passDuration: passDuration,
	}, nil
}

// RecordPass records one completed refresh pass.
func (e *Exporter) RecordPass(ctx context.Context, backend string, duration time.Duration, passErr error) {
	status := "ok"
	if passErr != nil {
		status = "error"
	}
	opt := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("status", status),
	)
	e.passesTotal.Add(ctx, 1, opt)
	e.passDuration.Record(ctx, duration.Seconds(), opt)
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
