package ygggo_jdbd

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName    = "github.com/yggai/ygggo_jdbd"
	instrumentationVersion = "v0.1.0"
)

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// EnableTelemetry enables or disables OpenTelemetry tracing for this driver
func (d *Driver) EnableTelemetry(enabled bool) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.telemetryEnabled = enabled
}

// startSpan creates a new span with common database attributes.
// The tracer is looked up per call so a provider installed later is honored.
func (d *Driver) startSpan(ctx context.Context, operation string, stmt *PreparedStatement) (context.Context, trace.Span) {
	if d == nil || !d.telemetryEnabled {
		return ctx, trace.SpanFromContext(ctx)
	}

	tracer := otel.Tracer(instrumentationName, trace.WithInstrumentationVersion(instrumentationVersion))
	ctx, span := tracer.Start(ctx, fmt.Sprintf("ygggo_jdbd.%s", operation))

	span.SetAttributes(
		attribute.String("db.system", string(d.kind)),
		attribute.String("db.operation", operation),
		attribute.String("jdbd.driver_id", d.id),
	)
	if stmt != nil {
		span.SetAttributes(
			attribute.String("db.statement", stmt.Text()),
			attribute.Int("db.parameter_count", stmt.Placeholders()),
		)
	}
	return ctx, span
}

// finishSpan completes a span with error handling
func (d *Driver) finishSpan(span trace.Span, err error) {
	if d == nil || !d.telemetryEnabled {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
