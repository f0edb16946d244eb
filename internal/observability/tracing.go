package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// TracerName identifies spans created by this module.
const TracerName = "github.com/custodia-labs/appsec-mcp"

// Tracer returns the tracer of the globally installed provider.
// It is a no-op tracer until SetupTracing installs an exporter.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// SetupTracing installs an OTLP/gRPC tracer provider when an endpoint is
// configured. The returned function flushes and stops the provider; it is
// safe to call when tracing is disabled.
func SetupTracing(ctx context.Context, settings domain.TelemetrySettings) (func(context.Context) error, error) {
	if settings.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(settings.OTLPEndpoint)}
	if settings.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
