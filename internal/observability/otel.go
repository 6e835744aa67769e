package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/maiopinion/internal/platform/logger"
)

const (
	TracerName         = "github.com/yungbote/maiopinion"
	defaultServiceName = "maiopinion"
	defaultSampleRatio = 0.1
)

type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	// Endpoint is an OTLP/HTTP host:port. Empty means spans go to stdout.
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

func (c OtelConfig) exporterKind() string {
	if strings.TrimSpace(c.Endpoint) != "" {
		return "otlphttp"
	}
	return "stdout"
}

// InitOTel installs the global tracer provider and propagator. It never
// fails the caller: exporter problems are logged and tracing stays local.
// The returned func flushes and stops the provider.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "otel")

	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = defaultServiceName
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(name),
		attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
	))
	if err != nil {
		log.Warn("resource merge failed, using default resource", "error", err)
		res = resource.Default()
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(cfg.SampleRatio)))),
	}
	switch cfg.exporterKind() {
	case "otlphttp":
		eopts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(strings.TrimSpace(cfg.Endpoint))}
		if cfg.Insecure {
			eopts = append(eopts, otlptracehttp.WithInsecure())
		}
		if exp, err := otlptracehttp.New(ctx, eopts...); err != nil {
			log.Warn("otlp exporter init failed, spans are not exported", "error", err)
		} else {
			opts = append(opts, sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)))
		}
	default:
		if exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint()); err != nil {
			log.Warn("stdout exporter init failed, spans are not exported", "error", err)
		} else {
			opts = append(opts, sdktrace.WithSyncer(exp))
		}
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	log.Info("tracing enabled", "service", name, "exporter", cfg.exporterKind())
	return tp.Shutdown
}

func clampRatio(r float64) float64 {
	if r <= 0 {
		return defaultSampleRatio
	}
	return min(r, 1)
}

func Tracer() trace.Tracer { return otel.Tracer(TracerName) }

func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
