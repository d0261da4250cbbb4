// Package observability provides OpenTelemetry tracing for the OAuth
// orchestration flows, plus the standard span attributes every flow tags.
package observability

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Span attribute keys shared by every OAuth orchestration span.
const (
	WorkspaceIDKey  = attribute.Key("workspace_id")
	DefinitionIDKey = attribute.Key("connector_definition_id")
	ConnectorIDKey  = attribute.Key("connector_id")
	ProviderKey     = attribute.Key("provider")
)

// WorkspaceID returns the workspace span attribute.
func WorkspaceID(id uuid.UUID) attribute.KeyValue {
	return WorkspaceIDKey.String(id.String())
}

// DefinitionID returns the connector definition span attribute.
func DefinitionID(id uuid.UUID) attribute.KeyValue {
	return DefinitionIDKey.String(id.String())
}

// ConnectorID returns the connector instance span attribute.
func ConnectorID(id uuid.UUID) attribute.KeyValue {
	return ConnectorIDKey.String(id.String())
}

// TracingConfig configures the OTLP trace exporter.
type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
	OTLPEndpoint   string  `json:"otlp_endpoint"`
	SampleRate     float64 `json:"sample_rate"`
}

// Tracing owns the tracer provider lifecycle. When disabled it hands out a
// no-op tracer so callers never need to branch.
type Tracing struct {
	logger   *zap.Logger
	tracer   oteltrace.Tracer
	provider *trace.TracerProvider
}

// NewTracing sets up tracing according to cfg. A disabled config is valid and
// yields a Tracing whose tracer records nothing.
func NewTracing(logger *zap.Logger, cfg TracingConfig) (*Tracing, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracing{logger: logger}

	if !cfg.Enabled {
		logger.Info("tracing disabled")
		t.tracer = noop.NewTracerProvider().Tracer("oauthbridge")
		return t, nil
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	t.provider = trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(cfg.SampleRate)),
	)
	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.tracer = t.provider.Tracer(cfg.ServiceName)

	logger.Info("tracing initialized",
		zap.String("service_name", cfg.ServiceName),
		zap.String("otlp_endpoint", cfg.OTLPEndpoint),
		zap.Float64("sample_rate", cfg.SampleRate))

	return t, nil
}

// Tracer returns the tracer for orchestration spans.
func (t *Tracing) Tracer() oteltrace.Tracer {
	return t.tracer
}

// Close flushes and shuts down the tracer provider.
func (t *Tracing) Close(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	t.logger.Info("shutting down tracing")
	return t.provider.Shutdown(ctx)
}
