// Package telemetry wires optional OpenTelemetry tracing and log export
// over OTLP-HTTP. It is a no-op when no endpoint is configured.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	ServiceName  string
	OTLPEndpoint string
	Enabled      bool
}

type stderrErrorHandler struct{}

func (stderrErrorHandler) Handle(err error) {
	fmt.Fprintf(os.Stderr, "OTEL ERROR: %v\n", err)
}

// Init stands up trace and log export to cfg.OTLPEndpoint, returning a
// shutdown func to flush and release both exporters. When telemetry is
// disabled, shutdown is a harmless no-op and every subsequent Tracer call
// resolves to the SDK's default no-op tracer.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if !cfg.Enabled || cfg.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	otel.SetErrorHandler(stderrErrorHandler{})
	res := buildResource(cfg.ServiceName)

	tp, err := buildTracerProvider(ctx, cfg.OTLPEndpoint, res)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	lp, err := buildLoggerProvider(ctx, cfg.OTLPEndpoint, res)
	if err != nil {
		return nil, err
	}

	return func(shutdownCtx context.Context) error {
		_ = tp.Shutdown(shutdownCtx)
		_ = lp.Shutdown(shutdownCtx)
		return nil
	}, nil
}

func buildResource(serviceName string) *resource.Resource {
	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	return res
}

func buildTracerProvider(ctx context.Context, endpoint string, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("building trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func buildLoggerProvider(ctx context.Context, endpoint string, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	exporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpoint(endpoint), otlploghttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("building log exporter: %w", err)
	}
	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	), nil
}

// Tracer returns a tracer for the current global TracerProvider, which is
// the SDK's no-op provider until Init installs a real one.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}
