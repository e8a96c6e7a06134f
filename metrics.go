package ygggo_jdbd

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricsInstrumentationName = "github.com/yggai/ygggo_jdbd"
)

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Metrics holds all the metric instruments
type Metrics struct {
	driversLoaded     metric.Int64UpDownCounter
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
}

// EnableMetrics enables or disables metrics collection for this driver
func (d *Driver) EnableMetrics(enabled bool) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metricsEnabled = enabled
	if enabled && d.metrics == nil {
		d.initMetrics()
	}
}

// SetMeterProvider sets a custom meter provider for metrics
func (d *Driver) SetMeterProvider(provider metric.MeterProvider) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.meterProvider = provider
	if d.metricsEnabled {
		d.initMetrics()
	}
}

// initMetrics initializes all metric instruments
func (d *Driver) initMetrics() {
	var meter metric.Meter
	if d.meterProvider != nil {
		meter = d.meterProvider.Meter(metricsInstrumentationName)
	} else {
		meter = otel.Meter(metricsInstrumentationName)
	}

	d.metrics = &Metrics{}

	d.metrics.driversLoaded, _ = meter.Int64UpDownCounter(
		"ygggo_jdbd_drivers_loaded",
		metric.WithDescription("Number of drivers holding a live backend session"),
	)

	d.metrics.operationsTotal, _ = meter.Int64Counter(
		"ygggo_jdbd_operations_total",
		metric.WithDescription("Total number of query and execute operations"),
	)

	d.metrics.operationDuration, _ = meter.Float64Histogram(
		"ygggo_jdbd_operation_duration_seconds",
		metric.WithDescription("Duration of query and execute operations"),
		metric.WithUnit("s"),
	)
}

func (d *Driver) recordLoaded(ctx context.Context, delta int64) {
	if d == nil || !d.metricsEnabled || d.metrics == nil {
		return
	}
	d.metrics.driversLoaded.Add(ctx, delta,
		metric.WithAttributes(attribute.String("kind", string(d.kind))))
}

// recordOperation records query/execute metrics
func (d *Driver) recordOperation(ctx context.Context, op string, duration time.Duration, err error) {
	if d == nil || !d.metricsEnabled || d.metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}

	attrs := metric.WithAttributes(
		attribute.String("kind", string(d.kind)),
		attribute.String("operation", op),
		attribute.String("status", status),
	)

	d.metrics.operationsTotal.Add(ctx, 1, attrs)
	d.metrics.operationDuration.Record(ctx, duration.Seconds(), attrs)
}
