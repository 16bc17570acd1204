package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used by every service span.
const TracerName = "lawbix"

// NewTracerProvider builds a provider tagged with the service name and
// installs it globally. Extra span processors, such as exporters, are
// attached as given.
func NewTracerProvider(ctx context.Context, serviceName string, logger *slog.Logger, processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp
}

// Tracer returns the global tracer for service spans.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
