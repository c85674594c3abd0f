package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/vzahanych/aeroapi-demo-app/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const ServiceName = "aeroapi-demo-app"

type Telemetry struct {
	enabled  bool
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	conn     *grpc.ClientConn
}

func New(ctx context.Context, cfg config.TelemetryConfig, version string) (*Telemetry, error) {
	t := &Telemetry{
		enabled: cfg.Enabled,
	}

	if !cfg.Enabled {
		return t, nil
	}

	if err := t.initTracer(ctx, cfg.Endpoint, version); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	return t, nil
}

func (t *Telemetry) initTracer(ctx context.Context, endpoint, version string) error {
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create resource: %w", err)
	}

	t.conn = conn
	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.tracer = otel.Tracer(ServiceName)

	return nil
}

// StartSpanWithAttributes starts a span carrying attrs as string attributes.
func (t *Telemetry) StartSpanWithAttributes(ctx context.Context, name string, attrs map[string]interface{}) (context.Context, func()) {
	if !t.IsEnabled() || t.tracer == nil {
		return ctx, func() {}
	}

	ctx, span := t.tracer.Start(ctx, name)
	for k, v := range attrs {
		span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", v)))
	}

	return ctx, func() {
		span.End()
	}
}

func (t *Telemetry) IsEnabled() bool {
	if t == nil {
		return false
	}
	return t.enabled
}

func (t *Telemetry) GetTracer() trace.Tracer {
	if t == nil || !t.enabled || t.tracer == nil {
		return noop.NewTracerProvider().Tracer("noop")
	}
	return t.tracer
}

func (t *Telemetry) RecordError(err error, ctx context.Context, contextData map[string]interface{}) {
	if !t.IsEnabled() {
		return
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		span.RecordError(err)
		for k, v := range contextData {
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", v)))
		}
	}
}

// Shutdown flushes pending spans, then closes the exporter connection.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if !t.IsEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if t.provider != nil {
		if err := t.provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
	}

	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			return fmt.Errorf("failed to close exporter connection: %w", err)
		}
	}

	return nil
}
