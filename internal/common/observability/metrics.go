package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records demo request metrics through an OpenTelemetry meter exported to Prometheus.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	demoCounter   otelmetric.Int64Counter
	demoDuration  otelmetric.Float64Histogram
	emailCounter  otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	demoCounter, _ := meter.Int64Counter(
		"demos.processed",
		otelmetric.WithDescription("Number of demo requests processed"),
	)

	demoDuration, _ := meter.Float64Histogram(
		"demos.duration",
		otelmetric.WithDescription("Demo request processing duration"),
		otelmetric.WithUnit("ms"),
	)

	emailCounter, _ := meter.Int64Counter(
		"demos.emails",
		otelmetric.WithDescription("Demo emails by delivery outcome"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		demoCounter:   demoCounter,
		demoDuration:  demoDuration,
		emailCounter:  emailCounter,
	}
}

// NewNoop returns an instance whose record calls do nothing.
func NewNoop() *Observability {
	return &Observability{}
}

func (o *Observability) RecordDemoProcessed(ctx context.Context, route, status string) {
	if o == nil || o.demoCounter == nil {
		return
	}
	o.demoCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDemoDuration(ctx context.Context, duration time.Duration, status string) {
	if o == nil || o.demoDuration == nil {
		return
	}
	o.demoDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) RecordEmail(ctx context.Context, sent bool) {
	if o == nil || o.emailCounter == nil {
		return
	}
	o.emailCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.Bool("sent", sent)))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
