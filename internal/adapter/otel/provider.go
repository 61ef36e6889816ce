package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config selects where onboardiq sends spans and metrics.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Exporter       string // stdout, otlp or none
	Insecure       bool   // plain HTTP to the OTLP collector
}

// Providers owns the globally registered tracer and meter providers.
type Providers struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// sinks is the exporter pair for one Config.Exporter value. Nil members
// leave the provider without an exporter so spans and metrics are dropped.
type sinks struct {
	spans   sdktrace.SpanExporter
	metrics sdkmetric.Exporter
}

// Setup builds the providers for cfg and installs them as the otel globals
// along with a W3C trace-context and baggage propagator.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	out, err := openSinks(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if out.spans != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(out.spans))
	}
	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if out.metrics != nil {
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(out.metrics)))
	}

	p := &Providers{
		tracer: sdktrace.NewTracerProvider(traceOpts...),
		meter:  sdkmetric.NewMeterProvider(meterOpts...),
	}
	otel.SetTracerProvider(p.tracer)
	otel.SetMeterProvider(p.meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return p, nil
}

// Shutdown flushes pending spans and metrics. Both providers are always
// shut down; their errors are joined.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if err := p.tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer provider: %w", err))
	}
	if err := p.meter.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter provider: %w", err))
	}
	return errors.Join(errs...)
}

func openSinks(ctx context.Context, cfg Config) (sinks, error) {
	switch cfg.Exporter {
	case "none":
		return sinks{}, nil
	case "stdout":
		spans, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return sinks{}, fmt.Errorf("stdout span exporter: %w", err)
		}
		metrics, err := stdoutmetric.New()
		if err != nil {
			return sinks{}, fmt.Errorf("stdout metric exporter: %w", err)
		}
		return sinks{spans: spans, metrics: metrics}, nil
	case "otlp":
		var traceOpts []otlptracehttp.Option
		var metricOpts []otlpmetrichttp.Option
		if cfg.Insecure {
			traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
			metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
		}
		spans, err := otlptracehttp.New(ctx, traceOpts...)
		if err != nil {
			return sinks{}, fmt.Errorf("otlp span exporter: %w", err)
		}
		metrics, err := otlpmetrichttp.New(ctx, metricOpts...)
		if err != nil {
			return sinks{}, errors.Join(
				fmt.Errorf("otlp metric exporter: %w", err),
				spans.Shutdown(ctx),
			)
		}
		return sinks{spans: spans, metrics: metrics}, nil
	default:
		return sinks{}, fmt.Errorf("otel exporter %q not supported, want stdout, otlp or none", cfg.Exporter)
	}
}
