// Package telemetry installs the OpenTelemetry tracer provider and propagators.
package telemetry

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const serviceName = "sigmaverse-bridge"

type Options struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// Setup installs the propagators and, when enabled, an OTLP exporting tracer provider. The returned func flushes
// and stops everything Setup started.
func Setup(ctx context.Context, opts Options) (func(context.Context) error, error) {
	var shutdownFuncs []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	if opts.Enabled {
		tracerProvider, err := newTracerProvider(ctx, opts)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
		shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
		otel.SetTracerProvider(tracerProvider)
	}

	return shutdown, nil
}

func sampler(rate float64) trace.Sampler {
	switch rate {
	case 1.0:
		return trace.AlwaysSample()
	case 0.0:
		return trace.NeverSample()
	default:
		return trace.ParentBased(trace.TraceIDRatioBased(rate))
	}
}

func newTracerProvider(ctx context.Context, opts Options) (*trace.TracerProvider, error) {
	if opts.Endpoint == "" {
		return nil, eris.New("must specify an OTLP endpoint")
	}
	if opts.SampleRate < 0 || opts.SampleRate > 1 {
		return nil, eris.Errorf("trace sample rate must be between 0 and 1, got %f", opts.SampleRate)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(opts.Endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, eris.Wrap(err, "failed to create otlp exporter")
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(sampler(opts.SampleRate)),
	), nil
}
