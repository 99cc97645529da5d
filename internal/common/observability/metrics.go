package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"order-loadgen/internal/common/logger"
)

// Observability records per-phase batch metrics through OpenTelemetry and
// exposes them on the Prometheus registry. A zero value is safe to use and
// records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	phaseCounter  otelmetric.Int64Counter
	phaseDuration otelmetric.Float64Histogram
	taskCounter   otelmetric.Int64Counter
}

// New wires an OTel meter provider to reg. A nil reg means the default
// Prometheus registerer, which is what /metrics serves.
func New(serviceName string, reg promclient.Registerer, log logger.Logger) *Observability {
	opts := []prometheus.Option{}
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}

	exporter, err := prometheus.New(opts...)
	if err != nil {
		log.Warn("failed to create prometheus exporter, phase metrics disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	phaseCounter, _ := meter.Int64Counter(
		"batch.phases",
		otelmetric.WithDescription("Number of completed batch phases"),
	)

	phaseDuration, _ := meter.Float64Histogram(
		"batch.phase.duration",
		otelmetric.WithDescription("Wall time from first launch to barrier release"),
		otelmetric.WithUnit("ms"),
	)

	taskCounter, _ := meter.Int64Counter(
		"batch.tasks",
		otelmetric.WithDescription("Number of settled batch tasks"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		phaseCounter:  phaseCounter,
		phaseDuration: phaseDuration,
		taskCounter:   taskCounter,
	}
}

func (o *Observability) RecordPhase(ctx context.Context, phase string, duration time.Duration) {
	if o == nil || o.phaseCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("phase", phase))
	o.phaseCounter.Add(ctx, 1, attrs)
	o.phaseDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (o *Observability) RecordTasks(ctx context.Context, phase, outcome string, n int64) {
	if o == nil || o.taskCounter == nil || n == 0 {
		return
	}
	o.taskCounter.Add(ctx, n, otelmetric.WithAttributes(
		attribute.String("phase", phase),
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
