// Package metrics provides OpenTelemetry instrumentation for the workers: a meter provider
// exported in Prometheus format, a tracer provider for per-message spans, business
// operation metrics for the use cases and queue metrics for the batch dispatcher.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Provider owns the meter and tracer providers of a worker process.
type Provider struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	exporter       *promexporter.Exporter
	registry       *prometheus.Registry
}

// NewProvider creates a Provider with a dedicated Prometheus registry. The namespace
// names the service resource shared by metrics and spans (e.g., "ecomm_workers").
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", namespace))

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)

	// Spans are created for context propagation and sampling decisions. No exporter is
	// registered until a tracing backend is configured.
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
	)

	return &Provider{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		exporter:       exporter,
		registry:       registry,
	}, nil
}

// Handler serves the registry in Prometheus exposition format at /metrics.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the OpenTelemetry meter provider.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// TracerProvider returns the OpenTelemetry tracer provider.
func (p *Provider) TracerProvider() *sdktrace.TracerProvider {
	return p.tracerProvider
}

// Shutdown flushes and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.meterProvider != nil {
		errs = append(errs, p.meterProvider.Shutdown(ctx))
	}
	if p.tracerProvider != nil {
		errs = append(errs, p.tracerProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
