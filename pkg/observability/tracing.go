package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig controls the OpenTelemetry setup.
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	// Writer receives the exported spans. Defaults to stderr.
	Writer io.Writer
	// PrettyPrint indents exported spans.
	PrettyPrint bool
}

// ShutdownFunc flushes exporters when the process exits.
type ShutdownFunc func(context.Context) error

// InitTracing installs a global TracerProvider exporting to cfg.Writer.
// When tracing is disabled it returns a no-op shutdown and leaves the global provider untouched.
func InitTracing(_ context.Context, cfg TracingConfig) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "aura"
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(cfg.Writer)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exp, err := stdouttrace.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", cfg.ServiceVersion))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
	)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// EndSpan finalizes a span and captures the provided error.
func EndSpan(span trace.Span, err error) {
	if span == nil {
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
